package contracts

// Message is one raw MIDI message captured on an input connection.
type Message struct {
	Timestamp uint64 // Nanoseconds since the connection was opened (monotonic).
	Data      []byte // Raw bytes, status byte first, running status already expanded.
}

// InputConn is an open connection to an input port. The transport invokes the
// callback supplied at open time on its own thread until Close returns; after
// Close returns no further callbacks are delivered.
type InputConn interface {
	Close() error
}

// OutputConn is an open connection to an output port.
type OutputConn interface {
	Send(data []byte) error // Forwards the message synchronously to the device.
	Close() error
}

// Transport is the platform MIDI capability: it enumerates hardware ports and
// moves raw byte messages. Implementations live under internal/midi and are
// selected per operating system by the facade.
//
// OpenInput's onMessage callback runs on a thread owned by the transport; it
// must do bounded work and must never block.
type Transport interface {
	ListPorts(direction Direction) ([]PortInfo, error)
	OpenInput(portIndex int, onMessage func(data []byte)) (InputConn, error)
	OpenOutput(portIndex int) (OutputConn, error)
	Close() error
}
