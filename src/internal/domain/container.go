package domain

import "github.com/maksimkurb/valvula-mgr/src/internal/networking"

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// Usage:
//
//	deps := domain.NewDefaultDependencies()
//	out, err := deps.Executor().Run(ctx, "valvulad", "-p")
type AppDependencies struct {
	executor  CommandExecutor
	addresses AddressLister
}

// NewDefaultDependencies creates dependencies backed by os/exec and netlink.
func NewDefaultDependencies() *AppDependencies {
	return &AppDependencies{
		executor:  ShellExecutor{},
		addresses: networking.NetlinkAddresses{},
	}
}

// NewTestDependencies creates a dependency container with the given implementations.
// Nil arguments fall back to the production implementations.
func NewTestDependencies(executor CommandExecutor, addresses AddressLister) *AppDependencies {
	deps := NewDefaultDependencies()
	if executor != nil {
		deps.executor = executor
	}
	if addresses != nil {
		deps.addresses = addresses
	}
	return deps
}

// Executor returns the command executor.
func (d *AppDependencies) Executor() CommandExecutor {
	return d.executor
}

// AddressLister returns the local address source.
func (d *AppDependencies) AddressLister() AddressLister {
	return d.addresses
}
