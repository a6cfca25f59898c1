package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/investment-optimizer/internal/config"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config holds the HTTP API settings read from server-config.yaml.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	ReadTimeout   string               `yaml:"readTimeout"`
	Logging       config.LoggingConfig `yaml:"logging"`
	// Solver names the optimizer configuration file that seeds each request.
	Solver string `yaml:"solver"`

	uploadBytes int64
	readTimeout time.Duration
}

// LoadConfig reads the server configuration. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	conf := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, conf); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}
	if err := conf.apply(); err != nil {
		return nil, err
	}
	return conf, nil
}

// UploadSizeBytes is the largest accepted request body.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadBytes
}

// ReadHeaderTimeout bounds how long a client may take to send headers.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return c.readTimeout
}

// SetUploadSizeBytes replaces the upload limit; non-positive sizes are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.uploadBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)
}

func (c *Config) apply() error {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	c.Solver = strings.TrimSpace(c.Solver)
	if c.Solver == "" {
		c.Solver = constants.DefaultConfigFile
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size == 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.SetUploadSizeBytes(size)

	c.readTimeout = constants.DefaultReadHeaderTimeout
	if raw := strings.TrimSpace(c.ReadTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid readTimeout %q: %w", c.ReadTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("readTimeout must be positive, got %s", d)
		}
		c.readTimeout = d
	}
	return nil
}

var sizeUnits = map[string]int64{
	"":    1,
	"B":   1,
	"K":   1 << 10,
	"KB":  1 << 10,
	"KIB": 1 << 10,
	"M":   1 << 20,
	"MB":  1 << 20,
	"MIB": 1 << 20,
	"G":   1 << 30,
	"GB":  1 << 30,
	"GIB": 1 << 30,
}

// ParseSize converts sizes such as "512K", "4M" or "1024" to bytes. An empty
// string is zero.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return 0, nil
	}
	digits := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if digits == -1 {
		digits = len(s)
	}
	if digits == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	multiplier, ok := sizeUnits[strings.TrimSpace(s[digits:])]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit in %q", value)
	}
	n, err := strconv.ParseInt(s[:digits], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
