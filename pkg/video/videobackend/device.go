package videobackend

import (
	"context"

	"github.com/tauraamui/framesource/pkg/video/videoframe"
)

// LengthUnbounded is reported by devices which have no fixed frame
// count, live capture devices being the usual case.
const LengthUnbounded int64 = -1

// Device is the capability contract every concrete frame producer
// satisfies. A device owns exactly one underlying resource handle
// between Open and Close. Produce receives a context so that a caller
// which has stopped waiting can signal abandonment, devices are free
// to ignore it. Reposition commits a position computed upstream and
// only needs to work on devices reporting Seekable true.
type Device interface {
	Open(context.Context) error
	Close() error
	Produce(context.Context) (videoframe.Frame, bool)
	Reposition(pos int64) error
	Length() int64
	Seekable() bool
	Live() bool
}

func Default(addr string) Device {
	return OpenCV(addr)
}

func OpenCV(addr string) Device {
	return &openCVDevice{addr: addr}
}

func Mock() Device {
	return MockWithOptions(MockOptions{})
}

func Resolve(t, addr string) Device {
	switch t {
	case "mock":
		return Mock()
	default:
		return Default(addr)
	}
}
