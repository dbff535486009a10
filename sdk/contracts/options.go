package contracts

// MessageFilter restricts which raw messages an input connection enqueues.
// A message passes when its status byte appears in StatusBytes; an empty
// filter passes everything.
type MessageFilter struct {
	StatusBytes []byte
}

// Allows reports whether a message with the given status byte passes the filter.
func (f *MessageFilter) Allows(status byte) bool {
	if f == nil || len(f.StatusBytes) == 0 {
		return true
	}
	for _, b := range f.StatusBytes {
		if b == status {
			return true
		}
	}
	return false
}

// ClientOptions defines the configuration options for the MIDI bridge.
type ClientOptions struct {
	Logger        Logger         // Logger for logging events and errors.
	LogLevel      LogLevel       // Level of logging to use.
	ClientName    string         // Name registered with the platform MIDI service.
	MessageFilter *MessageFilter // Optional status-byte filter for input connections.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI bridge.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI bridge.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithClientName sets the name the bridge registers with the platform MIDI service.
func WithClientName(name string) Option {
	return func(opts *ClientOptions) {
		opts.ClientName = name
	}
}

// WithMessageFilter restricts input connections to the given status bytes.
func WithMessageFilter(filter MessageFilter) Option {
	return func(opts *ClientOptions) {
		opts.MessageFilter = &filter
	}
}
