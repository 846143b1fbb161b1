package videosource

import (
	"github.com/tauraamui/framesource/pkg/video/videoframe"
)

type ReadAsOptions struct {
	// CopyAlways forces a fresh copy even when the frame already
	// carries the requested format.
	CopyAlways bool
	// FailIfCannotConvert turns a missing conversion path into
	// ErrConversion instead of handing back the frame untouched.
	// Ignored when CopyAlways is set.
	FailIfCannotConvert bool
}

// ReadAs reads one frame and hands it over in the requested pixel
// format. An absent read (expired or end of stream) propagates
// unchanged, the conversion layer makes no distinction between the
// two. When the frame already matches and CopyAlways is unset the
// frame is returned as-is, no copy is made.
func (s *Source) ReadAs(format videoframe.Format, opts ReadAsOptions) (videoframe.Frame, error) {
	frame, err := s.Read()
	if err != nil {
		return nil, err
	}
	return convertFrame(frame, format, opts)
}

func convertFrame(frame videoframe.Frame, format videoframe.Format, opts ReadAsOptions) (videoframe.Frame, error) {
	if !opts.CopyAlways {
		if ff, ok := frame.(videoframe.Formatted); ok && ff.Format() == format {
			return frame, nil
		}
	}

	failHard := opts.FailIfCannotConvert && !opts.CopyAlways

	conv, ok := frame.(videoframe.Convertible)
	if !ok {
		if failHard {
			frame.Close()
			return nil, ErrConversion
		}
		return frame, nil
	}

	converted, err := conv.Convert(format)
	if err != nil {
		if failHard {
			frame.Close()
			return nil, ErrConversion
		}
		return frame, nil
	}

	frame.Close()
	return converted, nil
}
