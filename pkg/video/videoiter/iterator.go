package videoiter

import (
	"io"

	"github.com/tauraamui/framesource/pkg/video/videoframe"
	"github.com/tauraamui/framesource/pkg/video/videosource"
)

// Iterator walks a seekable source forwards one frame at a time by
// driving its seek and read surface. The last produced frame is
// cached against a logical cursor, so repeated Frame calls between
// advances are cheap and never touch the source. The iterator borrows
// the source, it never opens or closes it.
//
// Frames handed out by Frame belong to the caller, including closing
// them.
type Iterator struct {
	src       *videosource.Source
	cursor    int64
	frame     videoframe.Frame
	err       error
	exhausted bool
	disposed  bool
}

func New(src *videosource.Source) *Iterator {
	return &Iterator{src: src, cursor: -1}
}

// Next advances to the next frame, reporting whether one was
// produced. The first advance against a non-seekable source fails
// immediately, Err then reports ErrNotSeekable.
func (it *Iterator) Next() bool {
	if it.disposed || it.exhausted {
		return false
	}

	it.cursor++
	if _, err := it.src.Seek(it.cursor, io.SeekStart); err != nil {
		it.err = err
		it.exhausted = true
		return false
	}

	frame, err := it.src.Read()
	if err != nil {
		if err != videosource.ErrEndOfStream {
			it.err = err
		}
		it.exhausted = true
		return false
	}

	it.frame = frame
	return true
}

// Frame returns the frame produced by the last successful Next.
func (it *Iterator) Frame() videoframe.Frame {
	return it.frame
}

// Err reports what stopped iteration, nil after a plain end of
// stream.
func (it *Iterator) Err() error {
	return it.err
}

// Reset rewinds the source to the start and restores the before-first
// cursor, ready for another full pass.
func (it *Iterator) Reset() error {
	if it.disposed {
		return videosource.ErrSourceClosed
	}
	if _, err := it.src.Seek(0, io.SeekStart); err != nil {
		return err
	}
	it.cursor = -1
	it.frame = nil
	it.err = nil
	it.exhausted = false
	return nil
}

// Close drops the iterator's cursor state. Repeated calls have no
// further effect and the source's open state is never touched.
func (it *Iterator) Close() error {
	if it.disposed {
		return nil
	}
	it.disposed = true
	it.cursor = -1
	it.frame = nil
	return nil
}
