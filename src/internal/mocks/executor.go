// Package mocks provides test doubles for the domain interfaces.
package mocks

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
)

// MockExecutor is a mock implementation of the CommandExecutor interface.
//
// Commands are recorded as a single string ("valvulad -p"). Results are looked
// up in Results by that string; unknown commands succeed with empty output.
type MockExecutor struct {
	mu sync.Mutex

	// Results maps a command line to its scripted result.
	Results map[string]MockResult

	// RunFunc is called by Run if not nil, overriding Results
	RunFunc func(ctx context.Context, cmdline string) (string, error)

	// Calls tracks executed command lines in order
	Calls []string
}

// MockResult is the scripted outcome of one command line.
type MockResult struct {
	Output string
	Err    error
}

// NewMockExecutor creates an executor where every command succeeds.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{Results: map[string]MockResult{}}
}

// Fail makes cmdline return an exit error.
func (m *MockExecutor) Fail(cmdline string, output string) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[cmdline] = MockResult{Output: output, Err: fmt.Errorf("%s: exit status 1", cmdline)}
	return m
}

// Run records the command line and returns its scripted result.
func (m *MockExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")

	m.mu.Lock()
	m.Calls = append(m.Calls, cmdline)
	runFunc := m.RunFunc
	result, ok := m.Results[cmdline]
	m.mu.Unlock()

	if runFunc != nil {
		return runFunc(ctx, cmdline)
	}
	if ok {
		return result.Output, result.Err
	}
	return "", nil
}

// CallsSnapshot returns a copy of the recorded command lines.
func (m *MockExecutor) CallsSnapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// MockAddressLister is a mock implementation of the AddressLister interface.
type MockAddressLister struct {
	IPs []net.IP
	Err error

	// Calls tracks LocalAddresses invocations
	Calls int
}

// NewMockAddressLister returns a lister reporting the given addresses.
func NewMockAddressLister(addrs ...string) *MockAddressLister {
	m := &MockAddressLister{}
	for _, a := range addrs {
		m.IPs = append(m.IPs, net.ParseIP(a))
	}
	return m
}

func (m *MockAddressLister) LocalAddresses() ([]net.IP, error) {
	m.Calls++
	return m.IPs, m.Err
}
