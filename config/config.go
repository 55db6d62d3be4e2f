package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the process-wide playback and viewer defaults. Values are
// overridable from a yaml file and from command line flags in main.
type Config struct {
	ListenAddr    string  `yaml:"listen_addr"`
	PlaybackSpeed float32 `yaml:"playback_speed"`
	Loop          bool    `yaml:"loop"`
	FrameRate     float32 `yaml:"frame_rate"`
	Encoding      string  `yaml:"encoding"`
}

var current = Config{
	ListenAddr:    ":8000",
	PlaybackSpeed: 1.0,
	Loop:          true,
	FrameRate:     60.0,
}

func Get() Config { return current }

func Set(c Config) { current = c }

// LoadFile merges yaml config on top of the defaults.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read config %q", path)
	}
	if err := yaml.Unmarshal(data, &current); err != nil {
		return errors.Wrapf(err, "Failed to parse config %q", path)
	}
	if current.Encoding != "" {
		if err := SetEncoding(current.Encoding); err != nil {
			return err
		}
	}
	return nil
}
