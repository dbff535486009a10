//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/midilink-io/midilink/sdk/contracts"
)

type dummyTransport struct {
	logger contracts.Logger
}

// NewTransport initializes a dummy transport for non-macOS systems.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Info("Using dummy CoreMIDI transport for non-macOS system")
	return &dummyTransport{logger: options.Logger}, nil
}

func (t *dummyTransport) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	t.logger.Warn("ListPorts called on dummy CoreMIDI transport")
	return nil, fmt.Errorf("CoreMIDI is not available on this platform")
}

func (t *dummyTransport) OpenInput(portIndex int, onMessage func(data []byte)) (contracts.InputConn, error) {
	t.logger.Warn("OpenInput called on dummy CoreMIDI transport")
	return nil, fmt.Errorf("CoreMIDI is not available on this platform")
}

func (t *dummyTransport) OpenOutput(portIndex int) (contracts.OutputConn, error) {
	t.logger.Warn("OpenOutput called on dummy CoreMIDI transport")
	return nil, fmt.Errorf("CoreMIDI is not available on this platform")
}

func (t *dummyTransport) Close() error { return nil }
