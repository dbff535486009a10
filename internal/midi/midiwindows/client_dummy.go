//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/midilink-io/midilink/sdk/contracts"
)

type dummyTransport struct {
	logger contracts.Logger
}

// NewTransport initializes a dummy transport for non-Windows systems.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Info("Using dummy winmm transport for non-Windows system")
	return &dummyTransport{logger: options.Logger}, nil
}

func (t *dummyTransport) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	t.logger.Warn("ListPorts called on dummy winmm transport")
	return nil, fmt.Errorf("winmm is not available on this platform")
}

func (t *dummyTransport) OpenInput(portIndex int, onMessage func(data []byte)) (contracts.InputConn, error) {
	t.logger.Warn("OpenInput called on dummy winmm transport")
	return nil, fmt.Errorf("winmm is not available on this platform")
}

func (t *dummyTransport) OpenOutput(portIndex int) (contracts.OutputConn, error) {
	t.logger.Warn("OpenOutput called on dummy winmm transport")
	return nil, fmt.Errorf("winmm is not available on this platform")
}

func (t *dummyTransport) Close() error { return nil }
