package videosource

import "github.com/tauraamui/xerror"

const (
	kindUnsupportedOperation = xerror.Kind("UNSUPPORTED_OPERATION")
	kindExpired              = xerror.Kind("EXPIRED")
	kindEndOfStream          = xerror.Kind("END_OF_STREAM")
	kindSourceClosed         = xerror.Kind("SOURCE_CLOSED")
	kindConversion           = xerror.Kind("CONVERSION")
)

var (
	// ErrNotSeekable is returned by any seek attempt against a source
	// whose device reports Seekable false.
	ErrNotSeekable = xerror.NewWithKind(
		kindUnsupportedOperation, "source does not support seeking",
	)
	// ErrExpired marks a read which did not complete within the
	// configured read timeout. Retrying is a sensible response.
	ErrExpired = xerror.NewWithKind(
		kindExpired, "read expired before frame production completed",
	)
	// ErrEndOfStream marks a read against a device with nothing left
	// to produce. Retrying is not a sensible response.
	ErrEndOfStream = xerror.NewWithKind(
		kindEndOfStream, "device has no further frames to produce",
	)
	ErrSourceClosed = xerror.NewWithKind(
		kindSourceClosed, "source is not open",
	)
	ErrConversion = xerror.NewWithKind(
		kindConversion, "no conversion path to requested frame format",
	)
)
