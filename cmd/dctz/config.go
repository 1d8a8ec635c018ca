package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/dctz/codec"
	"github.com/arloliu/dctz/format"
)

// fileConfig is the optional YAML configuration read with --config. Every
// field is optional; command-line flags override it.
type fileConfig struct {
	// ErrorBound is the absolute error bound.
	ErrorBound *float64 `yaml:"error_bound"`
	// BlockSize is the per-dimension block extent: 4, 8, 16 or 32.
	BlockSize *int `yaml:"block_size"`
	// Mode is "error-bound" or "ratio".
	Mode string `yaml:"mode"`
	// CullThreshold switches to ratio mode with this culling threshold, in
	// quantization steps.
	CullThreshold *float64 `yaml:"cull_threshold"`
	// Compression is "none", "zstd", "s2" or "lz4".
	Compression string `yaml:"compression"`
	// Workers is the number of goroutines; 0 uses every CPU.
	Workers *int `yaml:"workers"`
	// BigEndian writes big-endian streams.
	BigEndian bool `yaml:"big_endian"`
	// Checksum stores a record section checksum. Defaults to true.
	Checksum *bool `yaml:"checksum"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// options converts the file configuration into codec options.
func (c fileConfig) options() ([]codec.Option, error) {
	var opts []codec.Option

	if c.ErrorBound != nil {
		opts = append(opts, codec.WithErrorBound(*c.ErrorBound))
	}
	if c.BlockSize != nil {
		opts = append(opts, codec.WithBlockSize(*c.BlockSize))
	}
	if c.Mode != "" {
		mode, err := format.ParseQuantizerMode(c.Mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithMode(mode))
	}
	if c.CullThreshold != nil {
		opts = append(opts, codec.WithRatioMode(*c.CullThreshold))
	}
	if c.Compression != "" {
		ct, err := format.ParseCompressionType(c.Compression)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithCompression(ct))
	}
	if c.Workers != nil {
		opts = append(opts, codec.WithWorkers(*c.Workers))
	}
	if c.BigEndian {
		opts = append(opts, codec.WithBigEndian())
	}
	if c.Checksum != nil {
		opts = append(opts, codec.WithChecksum(*c.Checksum))
	}

	return opts, nil
}
