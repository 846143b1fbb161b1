package videosource

import (
	"context"
	"time"

	"github.com/tauraamui/framesource/pkg/video/videoframe"
)

// ReadResult carries the outcome of one produce attempt. OK false
// means the device had nothing to give.
type ReadResult struct {
	Frame videoframe.Frame
	OK    bool
}

// ReadOp is a single in-flight frame production attempt. Exactly one
// result is ever delivered and the channel is buffered, so an
// abandoned attempt never strands its goroutine.
type ReadOp struct {
	src    *Source
	done   chan ReadResult
	cancel context.CancelFunc
}

// ReadAsync commits any pending seek target into the device, then
// launches one produce attempt and returns immediately. Issuing a
// second read while a previous attempt is still outstanding risks two
// concurrent produce calls against one device, only do so if the
// device documents it tolerates that.
func (s *Source) ReadAsync() *ReadOp {
	ctx, cancel := context.WithCancel(context.Background())
	op := &ReadOp{src: s, done: make(chan ReadResult, 1), cancel: cancel}

	if err := s.commitPendingSeek(); err != nil {
		// device refused the reposition, nothing sensible can be
		// produced from here
		cancel()
		op.done <- ReadResult{}
		return op
	}

	go op.produce(ctx)
	return op
}

func (op *ReadOp) produce(ctx context.Context) {
	defer op.cancel()
	frame, ok := op.src.device.Produce(ctx)
	if ok {
		op.src.advance()
	}
	op.done <- ReadResult{Frame: frame, OK: ok}
}

// Done exposes the pending result for callers wanting to select over
// multiple operations themselves.
func (op *ReadOp) Done() <-chan ReadResult {
	return op.done
}

// Await races the attempt against the given deadline. Expiry cancels
// the produce context and walks away, it does not wait for the
// attempt to acknowledge.
func (op *ReadOp) Await(timeout time.Duration) (videoframe.Frame, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-op.done:
		if !res.OK {
			return nil, ErrEndOfStream
		}
		return res.Frame, nil
	case <-timer.C:
		op.cancel()
		return nil, ErrExpired
	}
}

// Abandon signals cancellation to the in-flight attempt without
// consuming its result.
func (op *ReadOp) Abandon() {
	op.cancel()
}
