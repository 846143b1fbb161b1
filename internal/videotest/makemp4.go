package videotest

import (
	"io/ioutil"
	"path/filepath"

	"gocv.io/x/gocv"
)

const (
	testClipFrameCount = 30
	testClipWidth      = 64
	testClipHeight     = 48
)

// MakeMp4File writes a short synthetic clip into a temp dir and
// returns its path. Callers own removal of the file.
func MakeMp4File() (string, error) {
	dir, err := ioutil.TempDir("", "framesource-videotest")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "small.mp4")

	writer, err := gocv.VideoWriterFile(
		path, "mp4v", 30, testClipWidth, testClipHeight, true,
	)
	if err != nil {
		return "", err
	}
	defer writer.Close()

	mat := gocv.NewMatWithSize(testClipHeight, testClipWidth, gocv.MatTypeCV8UC3)
	defer mat.Close()

	for i := 0; i < testClipFrameCount; i++ {
		if err := writer.Write(mat); err != nil {
			return "", err
		}
	}

	return path, nil
}
