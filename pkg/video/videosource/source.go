package videosource

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/framesource/pkg/video/videobackend"
	"github.com/tauraamui/framesource/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const DefaultReadTimeout = 100 * time.Millisecond

// Source drives a single backend device as a sequential run of
// frames. It owns the cursor arithmetic, seek validation and the
// bounded wait read path, the device only ever sees committed
// positions and produce attempts.
//
// A source instance expects one caller at a time. Interleaving seeks
// and reads from multiple goroutines gives no guarantee which
// (position, frame) pairings are observed.
type Source struct {
	uuid        string
	device      videobackend.Device
	mu          sync.Mutex
	isOpen      bool
	position    int64
	pending     *int64
	readTimeout time.Duration
}

func New(device videobackend.Device) *Source {
	return &Source{device: device, readTimeout: DefaultReadTimeout}
}

func (s *Source) UUID() string {
	if len(s.uuid) == 0 {
		s.uuid = uuid.NewString()
	}
	return s.uuid
}

// Open acquires the underlying device. Re-opening an already open
// source is a no-op.
func (s *Source) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isOpen {
		return nil
	}
	if err := s.device.Open(ctx); err != nil {
		return xerror.Errorf("unable to open source device: %w", err)
	}
	s.isOpen = true
	s.position = 0
	s.pending = nil
	return nil
}

// Close releases the underlying device. Safe to call repeatedly, only
// the first call reaches the device.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return nil
	}
	s.isOpen = false
	return s.device.Close()
}

func (s *Source) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

func (s *Source) Length() int64 { return s.device.Length() }

func (s *Source) Seekable() bool { return s.device.Seekable() }

func (s *Source) Live() bool { return s.device.Live() }

// Position reports the index of the next frame a read will commit to
// producing, including any still pending seek target.
func (s *Source) Position() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return *s.pending
	}
	return s.position
}

func (s *Source) ReadTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTimeout
}

func (s *Source) SetReadTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readTimeout = d
}

// Seek computes and validates a new position without applying it. The
// result is clamped into [0, length] and held as a pending target
// which the next read commits into the device, seek computes, read
// commits. Accepts the io.Seek* whence constants.
func (s *Source) Seek(offset int64, whence int) (int64, error) {
	if !s.device.Seekable() {
		return 0, ErrNotSeekable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	length := s.device.Length()
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.position + offset
	case io.SeekEnd:
		if length == videobackend.LengthUnbounded {
			return 0, ErrNotSeekable
		}
		target = length + offset
	default:
		return 0, xerror.Errorf("unrecognised seek whence value: %d", whence)
	}

	target = clampPosition(target, length)
	s.pending = &target
	return target, nil
}

func clampPosition(target, length int64) int64 {
	if target < 0 {
		return 0
	}
	if length != videobackend.LengthUnbounded && target > length {
		return length
	}
	return target
}

// Read blocks until one frame is produced or the read timeout
// elapses, whichever happens first. On expiry the in-flight produce
// attempt is signalled to stop and abandoned, never joined, the
// device may still complete it without affecting this call.
func (s *Source) Read() (videoframe.Frame, error) {
	if !s.IsOpen() {
		return nil, ErrSourceClosed
	}
	return s.ReadAsync().Await(s.ReadTimeout())
}

func (s *Source) commitPendingSeek() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	target := *s.pending
	s.pending = nil
	if err := s.device.Reposition(target); err != nil {
		return err
	}
	s.position = target
	return nil
}

func (s *Source) advance() {
	s.mu.Lock()
	s.position++
	s.mu.Unlock()
}
