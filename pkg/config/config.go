package config

import (
	"github.com/tauraamui/framesource/internal/config"
	"github.com/tauraamui/framesource/pkg/sourcedef"
)

func DefaultResolver() sourcedef.Resolver {
	return config.DefaultResolver()
}
