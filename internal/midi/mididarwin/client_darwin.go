//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"

	"github.com/midilink-io/midilink/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for CoreMIDI connection and handling issues.
var (
	ErrCreateInputPort  = errors.New("error creating input port")
	ErrCreateOutputPort = errors.New("error creating output port")
	ErrConnectSource    = errors.New("error connecting to MIDI source")
)

// Transport implements the platform MIDI capability on Darwin (macOS) via
// CoreMIDI sources and destinations.
type Transport struct {
	logger contracts.Logger
	client coremidi.Client
}

// NewTransport registers a CoreMIDI client under the configured name.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, fmt.Errorf("creating CoreMIDI client: %w", err)
	}
	options.Logger.Info("CoreMIDI client created",
		options.Logger.Field().String("name", options.ClientName))
	return &Transport{logger: options.Logger, client: client}, nil
}

// ListPorts enumerates CoreMIDI sources or destinations.
func (t *Transport) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	if direction == contracts.DirectionOutput {
		destinations, err := coremidi.AllDestinations()
		if err != nil {
			return nil, fmt.Errorf("listing MIDI destinations: %w", err)
		}
		ports := make([]contracts.PortInfo, len(destinations))
		for i, d := range destinations {
			ports[i] = contracts.PortInfo{Index: i, Name: d.Name()}
		}
		return ports, nil
	}

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("listing MIDI sources: %w", err)
	}
	ports := make([]contracts.PortInfo, len(sources))
	for i, s := range sources {
		ports[i] = contracts.PortInfo{Index: i, Name: s.Name()}
	}
	return ports, nil
}

// portConnection is the part of the CoreMIDI port connection we rely on.
type portConnection interface {
	Disconnect()
}

// inputConn wraps the CoreMIDI port connection so Close detaches the source.
type inputConn struct {
	conn portConnection
}

func (c *inputConn) Close() error {
	c.conn.Disconnect()
	return nil
}

// OpenInput connects an input port to the source at the given index. CoreMIDI
// invokes the packet callback on its own thread.
func (t *Transport) OpenInput(portIndex int, onMessage func(data []byte)) (contracts.InputConn, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("listing MIDI sources: %w", err)
	}
	if portIndex < 0 || portIndex >= len(sources) {
		return nil, fmt.Errorf("source index %d out of range", portIndex)
	}

	port, err := coremidi.NewInputPort(t.client, "midilink input",
		func(source coremidi.Source, packet coremidi.Packet) {
			onMessage(packet.Data)
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	conn, err := port.Connect(sources[portIndex])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectSource, err)
	}
	return &inputConn{conn: conn}, nil
}

// outputConn sends packets to one CoreMIDI destination.
type outputConn struct {
	port coremidi.OutputPort
	dest coremidi.Destination
}

func (c *outputConn) Send(data []byte) error {
	packet := coremidi.NewPacket(data)
	return packet.Send(&c.port, &c.dest)
}

func (c *outputConn) Close() error { return nil }

// OpenOutput opens an output port addressed at the destination at the given index.
func (t *Transport) OpenOutput(portIndex int) (contracts.OutputConn, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("listing MIDI destinations: %w", err)
	}
	if portIndex < 0 || portIndex >= len(destinations) {
		return nil, fmt.Errorf("destination index %d out of range", portIndex)
	}
	port, err := coremidi.NewOutputPort(t.client, "midilink output")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	return &outputConn{port: port, dest: destinations[portIndex]}, nil
}

// Close releases the transport. CoreMIDI clients are disposed with the
// process, so there is nothing to tear down explicitly.
func (t *Transport) Close() error { return nil }
