package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/framesource/pkg/log"
	"github.com/tauraamui/framesource/pkg/sourcedef"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "framesource"
	configFileName = "config.json"
)

var fs afero.Fs = afero.NewOsFs()

func load() (sourcedef.Values, error) {
	var values sourcedef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return sourcedef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return sourcedef.Values{}, err
	}

	if err := unmarshal(file, &values); err != nil {
		return sourcedef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return sourcedef.Values{}, err
	}

	applyDefaultReadTimeouts(values.Sources)

	return values, nil
}

func applyDefaultReadTimeouts(sources []sourcedef.Source) {
	for i := 0; i < len(sources); i++ {
		if sources[i].ReadTimeoutMS == 0 {
			sources[i].ReadTimeoutMS = sourcedef.DefaultReadTimeoutMS
		}
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *sourcedef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv("FRAMESOURCE_CONFIG")
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
