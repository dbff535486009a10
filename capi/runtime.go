// Package capi is the flat, C-shaped surface of the library: plain functions
// over integer handles, primitive arguments and caller-allocated buffers,
// with negative status sentinels instead of errors. The cgo shim in export/
// forwards to this package one-to-one, so everything here stays free of
// unsafe and fully testable.
package capi

import (
	"sync"

	"github.com/midilink-io/midilink/sdk/contracts"
	"github.com/midilink-io/midilink/sdk/midilink"
)

// Runtime carries the process-lifetime state behind the flat surface: one
// client owning the handle registry and the platform transport. Entry points
// thread the runtime explicitly rather than reaching for package globals so
// tests can run against a stub transport.
type Runtime struct {
	client *midilink.Client
}

// NewRuntime wraps an existing client.
func NewRuntime(client *midilink.Client) *Runtime {
	return &Runtime{client: client}
}

var (
	defaultMu sync.Mutex
	defaultRT *Runtime
)

// Default returns the shared runtime, creating it on first use with the
// platform transport for the current OS.
func Default() (*Runtime, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT == nil {
		client, err := midilink.New(contracts.WithClientName("midilink"))
		if err != nil {
			return nil, err
		}
		defaultRT = &Runtime{client: client}
	}
	return defaultRT, nil
}

// Shutdown tears down the shared runtime, closing every live handle. Called
// when the host unloads the library; a later entry point re-initializes a
// fresh runtime.
func Shutdown() int32 {
	defaultMu.Lock()
	rt := defaultRT
	defaultRT = nil
	defaultMu.Unlock()
	if rt == nil {
		return StatusOK
	}
	if err := rt.client.Close(); err != nil {
		return StatusError
	}
	return StatusOK
}
