package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tomarAyush07/fleetdesk-cli/internal/flagx"
	"github.com/tomarAyush07/fleetdesk-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	DatabasePath  string         `json:"database_path"`
	CheckInterval timex.Duration `json:"check_interval"`
	WarnThreshold timex.Duration `json:"warn_threshold"`
}

// parseJson overlays Config with values loaded from a JSON file located via
// the -c/-config flags. Missing file path means no JSON layer. Read or
// unmarshal errors panic (caller should recover if desired).
//
// Only fields present in the JSON override the Config; absent fields keep
// their earlier values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.CheckInterval.Duration != 0 {
		cfg.CheckInterval = time.Duration(jc.CheckInterval.Duration)
	}
	if jc.WarnThreshold.Duration != 0 {
		cfg.WarnThreshold = time.Duration(jc.WarnThreshold.Duration)
	}
}
