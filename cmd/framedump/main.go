package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/framesource/pkg/config"
	"github.com/tauraamui/framesource/pkg/log"
	"github.com/tauraamui/framesource/pkg/sourcedef"
	"github.com/tauraamui/framesource/pkg/video/videobackend"
	"github.com/tauraamui/framesource/pkg/video/videoframe"
	"github.com/tauraamui/framesource/pkg/video/videoiter"
	"github.com/tauraamui/framesource/pkg/video/videosave"
	"github.com/tauraamui/framesource/pkg/video/videosource"
	"github.com/tauraamui/framesource/pkg/video/videostorage"
)

func init() {
	logging.ColorLogLevelLabelOnly = true
	loggingLevel := os.Getenv("FRAMESOURCE_LOGGING_LEVEL")

	switch strings.ToLower(loggingLevel) {
	case "info":
		logging.CurrentLoggingLevel = logging.InfoLevel
	case "warn":
		logging.CurrentLoggingLevel = logging.WarnLevel
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
	default:
		logging.CurrentLoggingLevel = logging.WarnLevel
	}
}

func main() {
	sourceName := flag.String("source", "", "name of the configured source to dump from")
	count := flag.Int("count", 10, "number of frames to dump")
	outDir := flag.String("out", ".", "directory to write frame images into")
	archivePath := flag.String("archive", "", "optional sqlite frame archive path")
	flag.Parse()

	if err := run(*sourceName, *count, *outDir, *archivePath); err != nil {
		log.Fatal(err.Error())
	}
}

func run(sourceName string, count int, outDir, archivePath string) error {
	values, err := config.DefaultResolver().Resolve()
	if err != nil {
		return err
	}

	def, err := findSource(values, sourceName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cancelOnInterrupt(cancel)

	src := videosource.New(videobackend.Resolve(def.Backend, def.Address))
	src.SetReadTimeout(def.ReadTimeout())

	if err := src.Open(ctx); err != nil {
		return err
	}
	defer src.Close()

	var archive videostorage.Storage
	if len(archivePath) > 0 {
		archive, err = videostorage.New(archivePath)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	log.Info("Dumping up to %d frames from source [%s]", count, def.Name)
	return dump(src, count, outDir, archive)
}

func findSource(values sourcedef.Values, name string) (sourcedef.Source, error) {
	for _, src := range values.Sources {
		if src.Name == name && !src.Disabled {
			return src, nil
		}
	}
	return sourcedef.Source{}, fmt.Errorf("no enabled source configured under name [%s]", name)
}

func dump(src *videosource.Source, count int, outDir string, archive videostorage.Storage) error {
	if !src.Seekable() {
		return dumpLive(src, count, outDir, archive)
	}

	iter := videoiter.New(src)
	defer iter.Close()

	dumped := 0
	for dumped < count && iter.Next() {
		if err := persistFrame(src, iter.Frame(), dumped, outDir, archive); err != nil {
			return err
		}
		dumped++
	}
	return iter.Err()
}

func dumpLive(src *videosource.Source, count int, outDir string, archive videostorage.Storage) error {
	for dumped := 0; dumped < count; {
		frame, err := src.Read()
		if err == videosource.ErrExpired {
			log.Debug("read expired, retrying...")
			continue
		}
		if err == videosource.ErrEndOfStream {
			return nil
		}
		if err != nil {
			return err
		}
		if err := persistFrame(src, frame, dumped, outDir, archive); err != nil {
			return err
		}
		dumped++
	}
	return nil
}

func persistFrame(src *videosource.Source, frame videoframe.Frame, index int, outDir string, archive videostorage.Storage) error {
	defer frame.Close()

	path := filepath.Join(outDir, fmt.Sprintf("frame-%04d.jpg", index))
	if err := videosave.Frame(frame, path); err != nil {
		return err
	}
	log.Info("Wrote %s", path)

	if archive != nil {
		return archive.SaveFrame(src.UUID(), src.Position()-1, frame)
	}
	return nil
}

func cancelOnInterrupt(cancel context.CancelFunc) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	fmt.Print("\r")
	log.Error("Received interrupt, shutting down...")
	cancel()
}
