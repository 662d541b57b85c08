// Package config loads pfhor settings from defaults, an optional config
// file, a .env file, PFHOR_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PFHOR"

// Backends accepted by Config.Backend.
const (
	BackendSoftware = "software"
	BackendGPU      = "gpu"
)

// Config holds every tunable of the viewer and the offline commands.
type Config struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	HFov   float64 `mapstructure:"hfov"` // degrees
	VFov   float64 `mapstructure:"vfov"` // degrees
	FPS    int     `mapstructure:"fps"`

	Backend string `mapstructure:"backend"`

	MinerLight         float64 `mapstructure:"miner-light"`
	MinerLightDistance float64 `mapstructure:"miner-light-distance"`

	FlushThreshold int `mapstructure:"flush-threshold"`
	MaxPortalDepth int `mapstructure:"max-portal-depth"`

	TextureDir string `mapstructure:"texture-dir"`
	CacheSize  int64  `mapstructure:"cache-size"`

	LogFile   string `mapstructure:"log-file"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	Seed int64 `mapstructure:"seed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:              160,
		Height:             100,
		HFov:               90,
		VFov:               60,
		FPS:                30,
		Backend:            BackendSoftware,
		MinerLight:         0.5,
		MinerLightDistance: 4096,
		FlushThreshold:     256,
		MaxPortalDepth:     32,
		CacheSize:          64 << 20,
		LogFile:            "pfhor.log",
		LogLevel:           "info",
		LogFormat:          "text",
		Seed:               1,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("hfov", d.HFov)
	v.SetDefault("vfov", d.VFov)
	v.SetDefault("fps", d.FPS)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("miner-light", d.MinerLight)
	v.SetDefault("miner-light-distance", d.MinerLightDistance)
	v.SetDefault("flush-threshold", d.FlushThreshold)
	v.SetDefault("max-portal-depth", d.MaxPortalDepth)
	v.SetDefault("texture-dir", d.TextureDir)
	v.SetDefault("cache-size", d.CacheSize)
	v.SetDefault("log-file", d.LogFile)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("seed", d.Seed)
}

// RegisterFlags adds a flag for every setting to fs. Flags left unset do
// not override lower layers.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.Int("width", d.Width, "frame width in pixels")
	fs.Int("height", d.Height, "frame height in pixels")
	fs.Float64("hfov", d.HFov, "horizontal field of view in degrees")
	fs.Float64("vfov", d.VFov, "vertical field of view in degrees")
	fs.Int("fps", d.FPS, "frames per second of the viewer")
	fs.String("backend", d.Backend, "rasterizer backend: software or gpu")
	fs.Float64("miner-light", d.MinerLight, "intensity of the viewer's own light")
	fs.Float64("miner-light-distance", d.MinerLightDistance, "distance at which the viewer's light fades out")
	fs.Int("flush-threshold", d.FlushThreshold, "draw entries buffered before the backend is called")
	fs.Int("max-portal-depth", d.MaxPortalDepth, "portal recursion limit")
	fs.String("texture-dir", d.TextureDir, "directory of texture images (procedural when empty)")
	fs.Int64("cache-size", d.CacheSize, "texture cache size in bytes")
	fs.String("log-file", d.LogFile, "log file")
	fs.String("log-level", d.LogLevel, "log level")
	fs.String("log-format", d.LogFormat, "log format: text or json")
	fs.Int64("seed", d.Seed, "random seed for flickering lights")
}

// Load resolves the configuration. path names a config file; when empty
// the --config flag is consulted, then pfhor.yaml in the working
// directory, which may be absent. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
		if path == "" {
			if f := flags.Lookup("config"); f != nil {
				path = f.Value.String()
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pfhor")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.HFov <= 0 || c.HFov >= 180 || c.VFov <= 0 || c.VFov >= 180:
		return fmt.Errorf("%w: field of view %gx%g", ErrInvalid, c.HFov, c.VFov)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	case c.Backend != BackendSoftware && c.Backend != BackendGPU:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	case c.MinerLight < 0 || c.MinerLight > 1:
		return fmt.Errorf("%w: miner light %g", ErrInvalid, c.MinerLight)
	case c.FlushThreshold <= 0 || c.MaxPortalDepth <= 0:
		return fmt.Errorf("%w: flush threshold %d, portal depth %d", ErrInvalid, c.FlushThreshold, c.MaxPortalDepth)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat)
	}
	return nil
}
