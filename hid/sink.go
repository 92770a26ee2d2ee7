package hid

import (
	"encoding/json"
	"io"
	"sync"
)

// Sink receives fully-populated dispatch steps in timestamp order.
// Delivery into a real HID pipeline is the sink's concern; the engine
// assumes Send is synchronous and never fails.
type Sink interface {
	Send(step Step)
}

// FuncSink adapts a function to the Sink interface.
type FuncSink func(Step)

func (f FuncSink) Send(step Step) { f(step) }

// WriterSink encodes each step as one JSON line. It is the default
// sink of the CLI, writing to stdout or a file.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

func (s *WriterSink) Send(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(step)
}
