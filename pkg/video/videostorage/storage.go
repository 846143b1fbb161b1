package videostorage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/framesource/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemoryPath opens a throwaway shared in-memory database, handy for
// tests and demos.
const InMemoryPath = "file::memory:?cache=shared"

var fs = afero.NewOsFs()

var timeNow = time.Now

// FrameRecord is one archived frame blob keyed against the source it
// was produced from.
type FrameRecord struct {
	ID         uint   `gorm:"primarykey"`
	SourceUUID string `gorm:"index"`
	Position   int64
	Timestamp  int64
	Width      int
	Height     int
	Data       []byte
}

type Storage interface {
	SaveFrame(sourceUUID string, position int64, frame videoframe.Frame) error
	Frames(sourceUUID string) ([]FrameRecord, error)
	Close() error
}

func New(path string) (Storage, error) {
	if path != InMemoryPath {
		if err := ensureDirectoryPathExists(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, xerror.Errorf("unable to open frame archive: %w", err)
	}

	if err := db.AutoMigrate(&FrameRecord{}); err != nil {
		return nil, xerror.Errorf("unable to migrate frame archive schema: %w", err)
	}

	return &storage{db: db}, nil
}

type storage struct {
	db *gorm.DB
}

func (s *storage) SaveFrame(sourceUUID string, position int64, frame videoframe.Frame) error {
	enc, ok := frame.(videoframe.Encodable)
	if !ok {
		return xerror.New("frame does not support binary encoding")
	}

	dimensions := frame.Dimensions()
	record := FrameRecord{
		SourceUUID: sourceUUID,
		Position:   position,
		Timestamp:  timeNow().Unix(),
		Width:      dimensions.W,
		Height:     dimensions.H,
		Data:       enc.ToBytes(),
	}
	return s.db.Create(&record).Error
}

func (s *storage) Frames(sourceUUID string) ([]FrameRecord, error) {
	var records []FrameRecord
	err := s.db.Where(
		"source_uuid = ?", sourceUUID,
	).Order("position asc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *storage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
