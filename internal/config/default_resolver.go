package config

import (
	"github.com/tauraamui/framesource/pkg/sourcedef"
)

func DefaultResolver() sourcedef.Resolver {
	return defaultResolver{}
}

type defaultResolver struct{}

func (d defaultResolver) Resolve() (sourcedef.Values, error) {
	return load()
}
