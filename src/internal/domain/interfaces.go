// Package domain defines core interfaces for dependency injection and abstraction.
//
// This package contains the interfaces that separate valvula-mgr from the host
// it manages (running processes, querying interfaces) so that services can be
// tested without root privileges or a running valvulad.
package domain

import (
	"context"
	"net"
)

// CommandExecutor runs external programs.
//
// The returned output is the combined stdout and stderr. A non-zero exit
// status is reported as an error.
type CommandExecutor interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// AddressLister returns the IP addresses assigned to local interfaces.
type AddressLister interface {
	LocalAddresses() ([]net.IP, error)
}
