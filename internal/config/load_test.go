package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/framesource/pkg/sourcedef"
)

type LoadConfigTestSuite struct {
	suite.Suite
	configResolver sourcedef.Resolver
	fs             afero.Fs
	path           string
	configFile     afero.File
}

func (suite *LoadConfigTestSuite) SetupSuite() {
	suite.fs = afero.NewMemMapFs()
	suite.configResolver = DefaultResolver()

	// use in memory FS in implementation for tests
	fs = suite.fs
}

func (suite *LoadConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
}

func (suite *LoadConfigTestSuite) SetupTest() {
	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm))
	suite.path = path

	configFile, err := suite.fs.Create(path)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), configFile)

	suite.configFile = configFile

	suite.overwriteTestConfig(
		`{
			"debug": true,
			"sources": [
				{
					"name": "FrontDoor",
					"address": "rtsp://fake.cam/stream"
				}
			]
		}`,
	)
}

func (suite *LoadConfigTestSuite) overwriteTestConfig(config string) {
	require.NoError(suite.T(), suite.configFile.Truncate(0))
	_, err := suite.configFile.Seek(0, 0)
	require.NoError(suite.T(), err)
	_, err = suite.configFile.WriteString(config)
	assert.NoError(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TearDownTest() {
	require.NoError(suite.T(), suite.configFile.Close())
	suite.fs.Remove(suite.path)
}

func (suite *LoadConfigTestSuite) TestLoadConfig() {
	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), config)

	assert.Equal(suite.T(), true, config.Debug)
	require.Len(suite.T(), config.Sources, 1)
	assert.Equal(suite.T(), "FrontDoor", config.Sources[0].Name)
	assert.Equal(suite.T(), "rtsp://fake.cam/stream", config.Sources[0].Address)
}

func (suite *LoadConfigTestSuite) TestLoadConfigAppliesDefaultReadTimeout() {
	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)

	require.Len(suite.T(), config.Sources, 1)
	assert.Equal(suite.T(), sourcedef.DefaultReadTimeoutMS, config.Sources[0].ReadTimeoutMS)
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsValidationOnDupSourceNames() {
	suite.overwriteTestConfig(
		`{"sources": [
			{"name": "FakeSource1", "address": "1"},
			{"name": "FakeSource2", "address": "2"},
			{"name": "FakeSource1", "address": "3"}
		]}`,
	)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.EqualError(suite.T(), err, "validation failed: source names must be unique")
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsOnMalformedJSON() {
	suite.overwriteTestConfig(`{"sources": [}`)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)
}

func (suite *LoadConfigTestSuite) TestConfigPathHonoursEnvOverride() {
	os.Setenv("FRAMESOURCE_CONFIG", "/custom/location/config.json")
	defer os.Unsetenv("FRAMESOURCE_CONFIG")

	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/custom/location/config.json", path)
}

func TestLoadConfigTestSuite(t *testing.T) {
	suite.Run(t, &LoadConfigTestSuite{})
}
