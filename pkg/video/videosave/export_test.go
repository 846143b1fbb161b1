package videosave

import (
	"github.com/spf13/afero"
	"gocv.io/x/gocv"
)

func OverloadWriteImageFile(overload func(string, *gocv.Mat) bool) func() {
	writeImageFileRef := writeImageFile
	writeImageFile = overload
	return func() { writeImageFile = writeImageFileRef }
}

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}
