// Package midilink is the Go-facing facade of the library: it ties the
// platform transport, the device I/O bridge, the SMF engine and the handle
// registry together behind one client with opaque integer handles. The flat
// C surface in capi is a thin shell over this package.
package midilink

import (
	"fmt"

	"github.com/midilink-io/midilink/internal/bridge"
	"github.com/midilink-io/midilink/internal/registry"
	"github.com/midilink-io/midilink/sdk/contracts"
	"github.com/midilink-io/midilink/sdk/smf"
)

// Client owns all opened device connections and file parses. Handles are
// opaque monotonically increasing integers, never reused, shared across both
// entry kinds.
type Client struct {
	logger contracts.Logger
	bridge *bridge.Bridge
	reg    *registry.Registry
}

// New creates a client backed by the platform transport for the current OS.
func New(opts ...contracts.Option) (*Client, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	transport, err := NewTransport(&options)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(transport, &options), nil
}

// NewWithTransport creates a client over an explicit transport. Used by
// tests and by hosts that bring their own platform capability.
func NewWithTransport(transport contracts.Transport, options *contracts.ClientOptions) *Client {
	return &Client{
		logger: options.Logger,
		bridge: bridge.New(transport, options.Logger, options.MessageFilter),
		reg:    registry.New(),
	}
}

// ListPorts returns a snapshot of the transport's ports for one direction.
// Indices are only valid until the next enumeration.
func (c *Client) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	return c.bridge.ListPorts(direction)
}

// OpenPort opens a connection to the port at the given index and returns its
// handle.
func (c *Client) OpenPort(direction contracts.Direction, portIndex int) (int32, error) {
	conn, err := c.bridge.Open(direction, portIndex)
	if err != nil {
		return -1, err
	}
	return c.reg.Add(conn), nil
}

// conn resolves a handle to a device connection.
func (c *Client) conn(handle int32) (*bridge.Conn, error) {
	e, ok := c.reg.Get(handle)
	if !ok {
		return nil, contracts.ErrInvalidHandle
	}
	conn, ok := e.(*bridge.Conn)
	if !ok {
		return nil, fmt.Errorf("%w: not a device connection", contracts.ErrInvalidHandle)
	}
	return conn, nil
}

// Poll drains one received message from an input connection, in FIFO arrival
// order. It never blocks; ok is false when no message has arrived.
func (c *Client) Poll(handle int32) (msg contracts.Message, ok bool, err error) {
	conn, err := c.conn(handle)
	if err != nil {
		return contracts.Message{}, false, err
	}
	msg, ok = conn.Poll()
	return msg, ok, nil
}

// Send forwards a raw message synchronously to an output connection.
func (c *Client) Send(handle int32, data []byte) error {
	conn, err := c.conn(handle)
	if err != nil {
		return err
	}
	return conn.Send(data)
}

// CloseHandle releases a device connection or parsed file. Closing an
// unknown or already-closed handle is a no-op success.
func (c *Client) CloseHandle(handle int32) error {
	return c.reg.Close(handle)
}

// fileEntry adapts an immutable parsed file to the registry's entry contract.
type fileEntry struct {
	file *smf.File
}

func (fileEntry) Close() error { return nil }

// OpenFile parses the SMF at path and returns its handle.
func (c *Client) OpenFile(path string) (int32, error) {
	file, err := smf.ParseFile(path)
	if err != nil {
		c.logger.Warn("failed to open MIDI file",
			c.logger.Field().String("path", path),
			c.logger.Field().Error("error", err))
		return -1, err
	}
	c.logger.Info("MIDI file opened",
		c.logger.Field().String("path", path),
		c.logger.Field().Int("tracks", file.TrackCount()))
	return c.reg.Add(fileEntry{file: file}), nil
}

// OpenFileBytes parses an in-memory SMF buffer and returns its handle.
func (c *Client) OpenFileBytes(data []byte) (int32, error) {
	file, err := smf.Parse(data)
	if err != nil {
		return -1, err
	}
	return c.reg.Add(fileEntry{file: file}), nil
}

// File resolves a handle to its parsed file. The file is immutable and safe
// for concurrent reads.
func (c *Client) File(handle int32) (*smf.File, error) {
	e, ok := c.reg.Get(handle)
	if !ok {
		return nil, contracts.ErrInvalidHandle
	}
	fe, ok := e.(fileEntry)
	if !ok {
		return nil, fmt.Errorf("%w: not a file handle", contracts.ErrInvalidHandle)
	}
	return fe.file, nil
}

// OpenHandles returns the number of live handles.
func (c *Client) OpenHandles() int { return c.reg.Len() }

// Close tears down every live handle and releases the transport. Called when
// the host unloads the library.
func (c *Client) Close() error {
	err := c.reg.CloseAll()
	if cerr := c.bridge.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
