package cli

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/mobile-next/hidsynth/utils"
)

// FileConfig holds settings read from the ini config file. CLI flags
// take precedence over file values.
type FileConfig struct {
	KeepAlive float64
	Randomize bool
	Listen    string
	CORS      bool
}

const configFileName = ".hidsynth.ini"

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFileName)
}

// loadFileConfig reads the config file at path, falling back to
// ~/.hidsynth.ini. A missing file yields zero values.
func loadFileConfig(path string) FileConfig {
	var cfg FileConfig

	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return cfg
	}

	file, err := ini.Load(path)
	if err != nil {
		if explicit {
			utils.Warn("cannot read config file %s: %v", path, err)
		}
		return cfg
	}

	gen := file.Section("generator")
	cfg.KeepAlive = gen.Key("keepalive").MustFloat64(0)
	cfg.Randomize = gen.Key("randomize").MustBool(false)

	srv := file.Section("server")
	cfg.Listen = srv.Key("listen").String()
	cfg.CORS = srv.Key("cors").MustBool(false)

	utils.Verbose("loaded config from %s", path)
	return cfg
}
