package videoframe

type Dimensions struct {
	W, H int
}

// Frame holds a single unit of produced media data. Ownership passes
// to whoever receives one from a read, including the duty to Close it.
type Frame interface {
	DataRef() interface{}
	Dimensions() Dimensions
	Close()
}

// Format identifies a pixel channel layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatBGR
	FormatRGBA
	FormatGray
)

func (f Format) String() string {
	switch f {
	case FormatBGR:
		return "bgr"
	case FormatRGBA:
		return "rgba"
	case FormatGray:
		return "gray"
	}
	return "unknown"
}

// Formatted is implemented by frames which know their own pixel layout.
type Formatted interface {
	Format() Format
}

// Convertible is implemented by frames able to re-express their pixel
// data in another layout. Convert always yields a new frame, the
// receiver is left untouched.
type Convertible interface {
	Convert(Format) (Frame, error)
}

// Encodable is implemented by frames which can serialise themselves
// into a self describing byte blob.
type Encodable interface {
	ToBytes() []byte
}
