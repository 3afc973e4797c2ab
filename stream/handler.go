package stream

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/model"
	"github.com/arloliu/osmpbf/schema"
)

// Ack acknowledges a notification. A nil error lets the stream move on to the
// next block; a non-nil error aborts it. Only the first call has an effect;
// an Ack may be called from any goroutine, before or after the handler
// returns.
type Ack func(err error)

// Handler receives the notifications of Run.
//
// OnHeader and OnData must arrange for ack to be called. OnEnd and OnError are
// terminal: exactly one of them is called, once, and no notification follows.
type Handler interface {
	OnHeader(header *schema.HeaderBlock, ack Ack)
	OnData(batch *model.Batch, ack Ack)
	OnEnd()
	OnError(err error)
}

// Funcs adapts synchronous callbacks to Handler. Each notification is
// acknowledged when its callback returns, with the callback's error. Nil
// callbacks acknowledge immediately.
type Funcs struct {
	Header func(header *schema.HeaderBlock) error
	Data   func(batch *model.Batch) error
	End    func()
	Error  func(err error)
}

var _ Handler = Funcs{}

// OnHeader implements Handler.
func (f Funcs) OnHeader(header *schema.HeaderBlock, ack Ack) {
	var err error
	if f.Header != nil {
		err = f.Header(header)
	}
	ack(err)
}

// OnData implements Handler.
func (f Funcs) OnData(batch *model.Batch, ack Ack) {
	var err error
	if f.Data != nil {
		err = f.Data(batch)
	}
	ack(err)
}

// OnEnd implements Handler.
func (f Funcs) OnEnd() {
	if f.End != nil {
		f.End()
	}
}

// OnError implements Handler.
func (f Funcs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// ackSignal carries the first Ack result to the driver.
type ackSignal struct {
	once sync.Once
	ch   chan error
}

func newAck() (*ackSignal, Ack) {
	a := &ackSignal{ch: make(chan error, 1)}

	return a, func(err error) {
		a.once.Do(func() {
			a.ch <- err
		})
	}
}

func (a *ackSignal) wait(ctx context.Context) error {
	select {
	case err := <-a.ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the stream to completion, delivering every notification to h.
//
// Each header or data notification blocks the stream until its Ack is called.
// A consumer that never acknowledges halts the stream; cancelling ctx while
// waiting aborts it. Run delivers exactly one of OnEnd or OnError.
//
// Parameters:
//   - ctx: Cancels the run between blocks or while waiting for an Ack
//   - h: Notification handler
//
// Returns:
//   - error: nil after OnEnd, the error passed to OnError otherwise, or
//     errs.ErrStreamStarted without any notification when the stream is not
//     in StateIdle
func (s *Stream) Run(ctx context.Context, h Handler) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return errs.ErrStreamStarted
	}

	for {
		ev, err := s.next(ctx)
		if errors.Is(err, io.EOF) {
			h.OnEnd()
			return nil
		}
		if err != nil {
			h.OnError(err)
			return err
		}

		signal, ack := newAck()
		switch ev.Kind {
		case EventHeader:
			h.OnHeader(ev.Header, ack)
		case EventData:
			h.OnData(ev.Batch, ack)
		}

		if err := signal.wait(ctx); err != nil {
			err = s.fail(StageNotifying, ev.Block.Index, ev.Block.Offset, err)
			h.OnError(err)

			return err
		}
	}
}
