package videobackend_test

import (
	"context"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/framesource/internal/videotest"
	"github.com/tauraamui/framesource/pkg/video/videobackend"
	"github.com/tauraamui/framesource/pkg/video/videoframe"
)

func openTestClipDevice(t *testing.T) (videobackend.Device, func()) {
	t.Helper()

	mp4FilePath, err := videotest.MakeMp4File()
	if err != nil {
		t.Fatal(err)
	}

	device := videobackend.OpenCV(mp4FilePath)
	if err := device.Open(context.Background()); err != nil {
		os.Remove(mp4FilePath)
		t.Fatal(err)
	}

	return device, func() {
		device.Close()
		os.Remove(mp4FilePath)
	}
}

func TestOpenCVDeviceReportsRecordingCapabilities(t *testing.T) {
	is := is.New(t)
	device, cleanup := openTestClipDevice(t)
	defer cleanup()

	is.True(device.Seekable())
	is.True(!device.Live())
	is.True(device.Length() > 0)
}

func TestOpenCVDeviceProducesFrames(t *testing.T) {
	is := is.New(t)
	device, cleanup := openTestClipDevice(t)
	defer cleanup()

	frame, ok := device.Produce(context.Background())
	is.True(ok)
	defer frame.Close()

	dimensions := frame.Dimensions()
	is.True(dimensions.W > 0)
	is.True(dimensions.H > 0)
}

func TestOpenCVDeviceRepositionRewindsProduction(t *testing.T) {
	is := is.New(t)
	device, cleanup := openTestClipDevice(t)
	defer cleanup()

	first, ok := device.Produce(context.Background())
	is.True(ok)
	defer first.Close()

	is.NoErr(device.Reposition(0))

	again, ok := device.Produce(context.Background())
	is.True(ok)
	defer again.Close()
}

func TestOpenCVDeviceCloseTwiceDoesNotErr(t *testing.T) {
	is := is.New(t)
	device, cleanup := openTestClipDevice(t)
	defer cleanup()

	is.NoErr(device.Close())
	is.NoErr(device.Close())
}

func TestOpenCVFrameByteRoundTrip(t *testing.T) {
	is := is.New(t)
	device, cleanup := openTestClipDevice(t)
	defer cleanup()

	frame, ok := device.Produce(context.Background())
	is.True(ok)
	defer frame.Close()

	enc, ok := frame.(videoframe.Encodable)
	is.True(ok)

	restored, err := videobackend.NewFrameFromBytes(enc.ToBytes())
	is.NoErr(err)
	defer restored.Close()

	is.Equal(restored.Dimensions(), frame.Dimensions())
}

func TestOpenCVFrameConvertsBetweenFormats(t *testing.T) {
	is := is.New(t)
	device, cleanup := openTestClipDevice(t)
	defer cleanup()

	frame, ok := device.Produce(context.Background())
	is.True(ok)
	defer frame.Close()

	formatted, ok := frame.(videoframe.Formatted)
	is.True(ok)
	is.Equal(formatted.Format(), videoframe.FormatBGR)

	convertible, ok := frame.(videoframe.Convertible)
	is.True(ok)

	gray, err := convertible.Convert(videoframe.FormatGray)
	is.NoErr(err)
	defer gray.Close()

	grayFormatted, ok := gray.(videoframe.Formatted)
	is.True(ok)
	is.Equal(grayFormatted.Format(), videoframe.FormatGray)
}
