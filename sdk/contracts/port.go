package contracts

// Direction selects which side of the MIDI transport a port or connection
// belongs to.
type Direction int

const (
	// DirectionInput addresses ports that deliver messages from hardware to us.
	DirectionInput Direction = iota
	// DirectionOutput addresses ports we can send messages to.
	DirectionOutput
)

// String returns "input" or "output".
func (d Direction) String() string {
	if d == DirectionOutput {
		return "output"
	}
	return "input"
}

// PortInfo describes one MIDI port in the current enumeration.
//
// Indices are positional and only valid until the next enumeration: the
// underlying transport may reorder ports on hot-plug, so callers should
// re-enumerate immediately before opening rather than caching indices.
type PortInfo struct {
	Index int    // Ordinal position in the enumeration that produced this descriptor.
	Name  string // Display name reported by the platform.
}
