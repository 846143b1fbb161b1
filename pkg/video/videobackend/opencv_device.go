package videobackend

import (
	"context"
	"encoding/binary"
	"strconv"
	"strings"
	"sync"

	"github.com/tauraamui/framesource/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVFrame struct {
	isClosed bool
	mat      gocv.Mat
}

func (frame *openCVFrame) DataRef() interface{} {
	return &frame.mat
}

func (frame *openCVFrame) Dimensions() videoframe.Dimensions {
	return videoframe.Dimensions{W: frame.mat.Cols(), H: frame.mat.Rows()}
}

func (frame *openCVFrame) Format() videoframe.Format {
	switch frame.mat.Channels() {
	case 1:
		return videoframe.FormatGray
	case 3:
		return videoframe.FormatBGR
	case 4:
		return videoframe.FormatRGBA
	}
	return videoframe.FormatUnknown
}

var conversionCodes = map[videoframe.Format]map[videoframe.Format]gocv.ColorConversionCode{
	videoframe.FormatBGR: {
		videoframe.FormatGray: gocv.ColorBGRToGray,
		videoframe.FormatRGBA: gocv.ColorBGRToRGBA,
	},
	videoframe.FormatRGBA: {
		videoframe.FormatGray: gocv.ColorRGBAToGray,
		videoframe.FormatBGR:  gocv.ColorRGBAToBGR,
	},
	videoframe.FormatGray: {
		videoframe.FormatBGR:  gocv.ColorGrayToBGR,
		videoframe.FormatRGBA: gocv.ColorGrayToBGRA,
	},
}

func (frame *openCVFrame) Convert(to videoframe.Format) (videoframe.Frame, error) {
	if frame.Format() == to {
		return &openCVFrame{mat: frame.mat.Clone()}, nil
	}

	code, ok := conversionCodes[frame.Format()][to]
	if !ok {
		return nil, xerror.Errorf(
			"no conversion path from %s to %s", frame.Format(), to,
		)
	}

	converted := gocv.NewMat()
	gocv.CvtColor(frame.mat, &converted, code)
	return &openCVFrame{mat: converted}, nil
}

func (frame *openCVFrame) ToBytes() []byte {
	var r, c, mt uint16
	// store the OpenCV matrix rows, columns and type
	r = uint16(frame.mat.Rows())  // 2 bytes
	c = uint16(frame.mat.Cols())  // 2 bytes
	mt = uint16(frame.mat.Type()) // 2 bytes

	suffix := make([]byte, 8)
	binary.LittleEndian.PutUint16(suffix[:2], r)
	binary.LittleEndian.PutUint16(suffix[2:4], c)
	binary.LittleEndian.PutUint16(suffix[4:6], mt)
	suffix[6] = 0x46
	suffix[7] = 0x53

	return append(frame.mat.ToBytes(), suffix...)
}

func (frame *openCVFrame) Close() {
	if !frame.isClosed {
		frame.mat.Close()
		frame.isClosed = true
	}
}

// NewFrameFromBytes rebuilds an OpenCV backed frame from a blob
// previously produced by the frame's ToBytes.
func NewFrameFromBytes(d []byte) (videoframe.Frame, error) {
	if len(d) < 8 {
		return nil, xerror.New("OpenCV frame expects at least 8 bytes to load")
	}

	dl := len(d)
	suffix := d[dl-8:]

	if int(suffix[6]) != 0x46 || int(suffix[7]) != 0x53 {
		return nil, xerror.New("OpenCV frame bytes missing trailing suffix")
	}

	r := binary.LittleEndian.Uint16(suffix[:2])
	c := binary.LittleEndian.Uint16(suffix[2:4])
	mtypeid := binary.LittleEndian.Uint16(suffix[4:6])
	mattype := gocv.MatType(mtypeid)

	if dl-8 < 8 {
		d = []byte{}
	} else {
		d = d[:dl-8]
	}

	mat, err := gocv.NewMatFromBytes(int(r), int(c), mattype, d)
	if err != nil {
		return nil, err
	}
	return &openCVFrame{mat: mat}, nil
}

type openCVDevice struct {
	addr   string
	mu     sync.Mutex
	isOpen bool
	live   bool
	vc     *gocv.VideoCapture
}

func (d *openCVDevice) Open(ctx context.Context) error {
	captureAndError := make(chan openVideoCaptureResult)
	go openVideoStream(d.addr, captureAndError)
	select {
	case r := <-captureAndError:
		if r.err != nil {
			return r.err
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		d.vc = r.vc
		d.isOpen = true
		d.live = isLiveAddr(d.addr)
		return nil
	case <-ctx.Done():
		return xerror.New("device open cancelled")
	}
}

type openVideoCaptureResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(addr string, d chan openVideoCaptureResult) {
	vc, err := openVideoCapture(addr)
	d <- openVideoCaptureResult{vc: vc, err: err}
}

var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

// isLiveAddr treats device indexes and stream URLs as live captures,
// anything else is assumed to be a recorded file on disk.
func isLiveAddr(addr string) bool {
	if _, err := strconv.Atoi(addr); err == nil {
		return true
	}
	for _, scheme := range []string{"rtsp://", "rtmp://", "http://", "https://", "udp://"} {
		if strings.HasPrefix(addr, scheme) {
			return true
		}
	}
	return false
}

func (d *openCVDevice) Produce(ctx context.Context) (videoframe.Frame, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	mat := gocv.NewMat()
	d.mu.Lock()
	ok := readFromVideoCapture(d.vc, &mat)
	d.mu.Unlock()
	if !ok {
		mat.Close()
		return nil, false
	}
	return &openCVFrame{mat: mat}, true
}

func (d *openCVDevice) Reposition(pos int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isOpen || d.live {
		return xerror.New("device does not support repositioning")
	}
	d.vc.Set(gocv.VideoCapturePosFrames, float64(pos))
	return nil
}

func (d *openCVDevice) Length() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isOpen || d.live {
		return LengthUnbounded
	}
	return int64(d.vc.Get(gocv.VideoCaptureFrameCount))
}

func (d *openCVDevice) Seekable() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isOpen && !d.live
}

func (d *openCVDevice) Live() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

func (d *openCVDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isOpen {
		return nil
	}
	d.isOpen = false
	return d.vc.Close()
}
