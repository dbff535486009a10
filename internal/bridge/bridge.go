// Package bridge wraps the platform MIDI transport capability: it marshals
// asynchronously-arriving input messages from the transport's callback thread
// into per-connection FIFO queues, and forwards outbound sends synchronously.
package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/midilink-io/midilink/sdk/contracts"
)

// Bridge owns a platform transport and opens connections against it.
type Bridge struct {
	transport contracts.Transport
	logger    contracts.Logger
	filter    *contracts.MessageFilter
}

// New wraps the given transport. The filter, when non-nil, is applied to
// every input connection opened through this bridge.
func New(transport contracts.Transport, log contracts.Logger, filter *contracts.MessageFilter) *Bridge {
	return &Bridge{transport: transport, logger: log, filter: filter}
}

// ListPorts enumerates the transport's ports for one direction. The result is
// a snapshot: indices may shift on hot-plug, so callers should re-enumerate
// immediately before opening.
func (b *Bridge) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	ports, err := b.transport.ListPorts(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrDeviceUnavailable, err)
	}
	return ports, nil
}

// Close releases the underlying transport client.
func (b *Bridge) Close() error {
	return b.transport.Close()
}

// Conn is one open device connection. Exactly one of in/out is set,
// matching the connection's direction.
type Conn struct {
	direction contracts.Direction
	portName  string

	in  contracts.InputConn
	out contracts.OutputConn
	q   *msgQueue

	logger    contracts.Logger
	closeOnce sync.Once
	closeErr  error
}

// Open re-enumerates ports and opens a connection to the port at the given
// index. Input connections start receiving immediately: the transport invokes
// our callback on its own thread and we queue (message, timestamp) pairs
// without blocking it.
func (b *Bridge) Open(direction contracts.Direction, portIndex int) (*Conn, error) {
	ports, err := b.ListPorts(direction)
	if err != nil {
		return nil, err
	}
	if portIndex < 0 || portIndex >= len(ports) {
		return nil, fmt.Errorf("%w: port %d of %d", contracts.ErrIndexOutOfRange, portIndex, len(ports))
	}

	conn := &Conn{
		direction: direction,
		portName:  ports[portIndex].Name,
		logger:    b.logger,
	}

	if direction == contracts.DirectionOutput {
		out, err := b.transport.OpenOutput(portIndex)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contracts.ErrDeviceUnavailable, err)
		}
		conn.out = out
		b.logger.Info("MIDI output connected", b.logger.Field().String("port", conn.portName))
		return conn, nil
	}

	conn.q = newMsgQueue()
	opened := time.Now()
	filter := b.filter
	in, err := b.transport.OpenInput(portIndex, func(data []byte) {
		// Runs on the transport's thread: bounded work only, and a failure
		// here must never crash the host process.
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("panic in MIDI receive callback",
					b.logger.Field().String("panic", fmt.Sprint(r)))
			}
		}()
		if len(data) == 0 {
			b.logger.Warn("dropping empty MIDI message",
				b.logger.Field().String("port", conn.portName))
			return
		}
		if !filter.Allows(data[0]) {
			return
		}
		msg := contracts.Message{
			Timestamp: uint64(time.Since(opened).Nanoseconds()),
			Data:      append([]byte(nil), data...),
		}
		conn.q.push(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrDeviceUnavailable, err)
	}
	conn.in = in
	b.logger.Info("MIDI input connected", b.logger.Field().String("port", conn.portName))
	return conn, nil
}

// Direction returns the connection's direction.
func (c *Conn) Direction() contracts.Direction { return c.direction }

// PortName returns the display name of the connected port.
func (c *Conn) PortName() string { return c.portName }

// Poll drains one message from an input connection's queue in FIFO order. It
// never blocks; it reports false when the queue is empty. Polling an output
// connection always reports false.
func (c *Conn) Poll() (contracts.Message, bool) {
	if c.q == nil {
		return contracts.Message{}, false
	}
	return c.q.pop()
}

// Pending returns the number of queued messages on an input connection.
func (c *Conn) Pending() int {
	if c.q == nil {
		return 0
	}
	return c.q.len()
}

// Send forwards the message synchronously to the transport. It fails with
// ErrInvalidHandle on an input connection and ErrTransportError when the
// device rejects the write.
func (c *Conn) Send(data []byte) error {
	if c.out == nil {
		return fmt.Errorf("%w: not an output connection", contracts.ErrInvalidHandle)
	}
	if err := c.out.Send(data); err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrTransportError, err)
	}
	return nil
}

// Close releases the transport connection and discards any queued messages.
// Closing twice is a no-op; the transport guarantees no further callbacks
// once its own close returns.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		switch {
		case c.in != nil:
			c.closeErr = c.in.Close()
			c.q.clear()
		case c.out != nil:
			c.closeErr = c.out.Close()
		}
		if c.closeErr != nil {
			c.logger.Warn("error closing MIDI connection",
				c.logger.Field().String("port", c.portName),
				c.logger.Field().Error("error", c.closeErr))
		}
	})
	return c.closeErr
}
