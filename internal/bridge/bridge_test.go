package bridge

import (
	"errors"
	"sync"
	"testing"

	"github.com/midilink-io/midilink/internal/logger"
	"github.com/midilink-io/midilink/sdk/contracts"
)

type stubInput struct {
	mu     sync.Mutex
	closed bool
}

func (s *stubInput) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type stubOutput struct {
	sent    [][]byte
	sendErr error
	closed  bool
}

func (s *stubOutput) Send(data []byte) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, append([]byte(nil), data...))
	return nil
}

func (s *stubOutput) Close() error {
	s.closed = true
	return nil
}

// stubTransport fakes the platform layer and hands the test the input
// callback so it can play the part of the device.
type stubTransport struct {
	inPorts  []contracts.PortInfo
	outPorts []contracts.PortInfo
	listErr  error

	deliver func(data []byte)
	input   *stubInput
	output  *stubOutput
	closed  bool
}

func (s *stubTransport) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if direction == contracts.DirectionInput {
		return s.inPorts, nil
	}
	return s.outPorts, nil
}

func (s *stubTransport) OpenInput(portIndex int, onMessage func(data []byte)) (contracts.InputConn, error) {
	s.deliver = onMessage
	s.input = &stubInput{}
	return s.input, nil
}

func (s *stubTransport) OpenOutput(portIndex int) (contracts.OutputConn, error) {
	s.output = &stubOutput{}
	return s.output, nil
}

func (s *stubTransport) Close() error {
	s.closed = true
	return nil
}

func newStubTransport() *stubTransport {
	return &stubTransport{
		inPorts:  []contracts.PortInfo{{Index: 0, Name: "Stub In"}},
		outPorts: []contracts.PortInfo{{Index: 0, Name: "Stub Out"}},
	}
}

func newTestBridge(transport contracts.Transport, filter *contracts.MessageFilter) *Bridge {
	return New(transport, logger.NewNopLogger(), filter)
}

func TestListPortsWrapsTransportError(t *testing.T) {
	st := newStubTransport()
	st.listErr = errors.New("backend down")
	b := newTestBridge(st, nil)
	if _, err := b.ListPorts(contracts.DirectionInput); !errors.Is(err, contracts.ErrDeviceUnavailable) {
		t.Errorf("error = %v, want ErrDeviceUnavailable", err)
	}
}

func TestOpenBadPortIndex(t *testing.T) {
	b := newTestBridge(newStubTransport(), nil)
	for _, idx := range []int{-1, 1, 42} {
		if _, err := b.Open(contracts.DirectionInput, idx); !errors.Is(err, contracts.ErrIndexOutOfRange) {
			t.Errorf("Open(input, %d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestInputPollFIFO(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	msgs := [][]byte{
		{0x90, 0x3C, 0x64},
		{0x80, 0x3C, 0x00},
		{0xB0, 0x07, 0x7F},
	}
	for _, m := range msgs {
		st.deliver(m)
	}
	if n := conn.Pending(); n != len(msgs) {
		t.Fatalf("Pending = %d, want %d", n, len(msgs))
	}
	var lastTS uint64
	for i, want := range msgs {
		got, ok := conn.Poll()
		if !ok {
			t.Fatalf("Poll %d came up empty", i)
		}
		if string(got.Data) != string(want) {
			t.Errorf("message %d = % x, want % x", i, got.Data, want)
		}
		if got.Timestamp < lastTS {
			t.Errorf("timestamps not monotonic: %d after %d", got.Timestamp, lastTS)
		}
		lastTS = got.Timestamp
	}
}

func TestPollEmptyDoesNotBlock(t *testing.T) {
	b := newTestBridge(newStubTransport(), nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, ok := conn.Poll(); ok {
		t.Error("Poll on empty queue reported a message")
	}
}

func TestCallbackCopiesData(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	buf := []byte{0x90, 0x3C, 0x64}
	st.deliver(buf)
	buf[1] = 0x00 // transports reuse their buffers

	got, ok := conn.Poll()
	if !ok || got.Data[1] != 0x3C {
		t.Errorf("queued message aliases the transport buffer: % x", got.Data)
	}
}

func TestMessageFilter(t *testing.T) {
	st := newStubTransport()
	filter := &contracts.MessageFilter{StatusBytes: []byte{0x90}}
	b := newTestBridge(st, filter)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	st.deliver([]byte{0x90, 0x3C, 0x64})
	st.deliver([]byte{0xB0, 0x07, 0x7F}) // filtered out
	st.deliver([]byte{0x90, 0x3E, 0x64})

	if n := conn.Pending(); n != 2 {
		t.Errorf("Pending = %d, want 2", n)
	}
}

func TestEmptyMessageDropped(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	st.deliver(nil)
	if n := conn.Pending(); n != 0 {
		t.Errorf("Pending = %d after empty delivery, want 0", n)
	}
}

func TestSendOnOutput(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionOutput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	msg := []byte{0x90, 0x3C, 0x64}
	if err := conn.Send(msg); err != nil {
		t.Fatal(err)
	}
	if len(st.output.sent) != 1 || string(st.output.sent[0]) != string(msg) {
		t.Errorf("sent = %v", st.output.sent)
	}
}

func TestSendOnInputFails(t *testing.T) {
	b := newTestBridge(newStubTransport(), nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := conn.Send([]byte{0x90, 0x3C, 0x64}); !errors.Is(err, contracts.ErrInvalidHandle) {
		t.Errorf("Send on input error = %v, want ErrInvalidHandle", err)
	}
}

func TestSendTransportFailure(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionOutput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	st.output.sendErr = errors.New("device unplugged")
	if err := conn.Send([]byte{0x90, 0x3C, 0x64}); !errors.Is(err, contracts.ErrTransportError) {
		t.Errorf("Send error = %v, want ErrTransportError", err)
	}
}

func TestCloseDiscardsQueue(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	st.deliver([]byte{0x90, 0x3C, 0x64})

	if err := conn.Close(); err != nil {
		t.Fatal(err)
	}
	if !st.input.closed {
		t.Error("transport connection not closed")
	}
	if _, ok := conn.Poll(); ok {
		t.Error("Poll returned a message after Close")
	}
	// Double close stays a no-op.
	if err := conn.Close(); err != nil {
		t.Errorf("second Close errored: %v", err)
	}
}

func TestCallbackPanicContained(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Swap the queue out so push panics on a nil receiver, simulating a bug
	// downstream of the callback.
	conn.q = nil
	st.deliver([]byte{0x90, 0x3C, 0x64}) // must not propagate the panic
}

func TestQueueConcurrentProducerConsumer(t *testing.T) {
	st := newStubTransport()
	b := newTestBridge(st, nil)
	conn, err := b.Open(contracts.DirectionInput, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	const total = 2000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			st.deliver([]byte{0x90, byte(i % 128), 0x64})
		}
	}()

	received := 0
	for received < total {
		if _, ok := conn.Poll(); ok {
			received++
		}
	}
	<-done
	if n := conn.Pending(); n != 0 {
		t.Errorf("Pending = %d after draining, want 0", n)
	}
}
