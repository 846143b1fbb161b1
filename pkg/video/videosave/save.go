package videosave

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/framesource/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

var fs = afero.NewOsFs()

var writeImageFile = func(path string, mat *gocv.Mat) bool {
	return gocv.IMWrite(path, *mat)
}

// Frame encodes a single frame to disk. The image format is chosen
// entirely by the path's file extension, the encoder owns all format
// knowledge and its failures propagate unchanged.
func Frame(frame videoframe.Frame, path string) error {
	if frame == nil {
		return xerror.New("cannot save nil frame")
	}

	if len(filepath.Ext(path)) == 0 {
		return xerror.New("save path must carry an image file extension").
			WithParam("path", path)
	}

	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to image file writer")
	}

	if err := ensureDirectoryPathExists(filepath.Dir(path)); err != nil {
		return err
	}

	if ok := writeImageFile(path, mat); !ok {
		return xerror.New("unable to encode frame to file").WithParam("path", path)
	}
	return nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
