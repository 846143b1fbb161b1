package sourcedef_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/framesource/pkg/sourcedef"
)

func TestValidateEmptyConfigPasses(t *testing.T) {
	is := is.New(t)
	body := `{}`
	config := sourcedef.Values{}
	is.NoErr(json.Unmarshal([]byte(body), &config))
	is.NoErr(config.RunValidate())
}

func TestValidatePopulatedConfigPassesValidation(t *testing.T) {
	is := is.New(t)
	body := `{
			"sources": [
				{
					"name": "FrontDoor",
					"address": "rtsp://fake.cam/stream",
					"read_timeout_ms": 250,
					"persist_location": "Nowhere"
				}
			]
		}`
	config := sourcedef.Values{}
	is.NoErr(json.Unmarshal([]byte(body), &config))
	is.NoErr(config.RunValidate())
}

func TestValidateFailsForMissingSourceName(t *testing.T) {
	is := is.New(t)
	body := `{
			"sources": [
				{
					"address": "rtsp://fake.cam/stream"
				}
			]
		}`
	config := sourcedef.Values{}
	is.NoErr(json.Unmarshal([]byte(body), &config))
	is.Equal(config.RunValidate().Error(), `Validation error in field "Name" of type "string" using validator "empty=false"`)
}

func TestValidateFailsForMissingSourceAddress(t *testing.T) {
	is := is.New(t)
	body := `{
			"sources": [
				{
					"name": "FrontDoor"
				}
			]
		}`
	config := sourcedef.Values{}
	is.NoErr(json.Unmarshal([]byte(body), &config))
	is.Equal(config.RunValidate().Error(), `Validation error in field "Address" of type "string" using validator "empty=false"`)
}

func TestValidateFailsForOutOfRangeReadTimeout(t *testing.T) {
	is := is.New(t)
	body := `{
			"sources": [
				{
					"name": "FrontDoor",
					"address": "rtsp://fake.cam/stream",
					"read_timeout_ms": 90000
				}
			]
		}`
	config := sourcedef.Values{}
	is.NoErr(json.Unmarshal([]byte(body), &config))
	is.Equal(config.RunValidate().Error(), `Validation error in field "ReadTimeoutMS" of type "int" using validator "lte=60000"`)
}

func TestValidateFailsForDuplicateSourceNames(t *testing.T) {
	is := is.New(t)
	body := `{
			"sources": [
				{"name": "FakeSource1", "address": "1"},
				{"name": "FakeSource2", "address": "2"},
				{"name": "FakeSource1", "address": "3"}
			]
		}`
	config := sourcedef.Values{}
	is.NoErr(json.Unmarshal([]byte(body), &config))
	is.Equal(config.RunValidate().Error(), "validation failed: source names must be unique")
}

func TestReadTimeoutFallsBackToDefault(t *testing.T) {
	is := is.New(t)

	src := sourcedef.Source{}
	is.Equal(src.ReadTimeout(), 100*time.Millisecond)

	src.ReadTimeoutMS = 250
	is.Equal(src.ReadTimeout(), 250*time.Millisecond)
}
