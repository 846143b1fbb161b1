package sourcedef

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/dealancer/validate.v2"
)

const DefaultReadTimeoutMS = 100

// Source describes one configured frame source.
type Source struct {
	Name            string `json:"name" validate:"empty=false"`
	Address         string `json:"address" validate:"empty=false"`
	Backend         string `json:"backend"`
	ReadTimeoutMS   int    `json:"read_timeout_ms" validate:"gte=0 & lte=60000"`
	PersistLocation string `json:"persist_location"`
	Disabled        bool   `json:"disabled"`
}

func (s Source) ReadTimeout() time.Duration {
	ms := s.ReadTimeoutMS
	if ms <= 0 {
		ms = DefaultReadTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

type Values struct {
	Debug   bool     `json:"debug"`
	Sources []Source `json:"sources"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupSourceNames(v.Sources) {
		return fmt.Errorf(validationErrorHeader, errors.New("source names must be unique"))
	}
	return nil
}

func hasDupSourceNames(sources []Source) (hasDup bool) {
	hasDup = false
	if len(sources) == 0 {
		return
	}

	for si, src := range sources {
		for i := si; i < len(sources); i++ {
			if i == si {
				continue
			}
			if src.Name == sources[i].Name {
				hasDup = true
				return
			}
		}
	}
	return
}
