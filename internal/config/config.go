package config

import (
	"strings"
	"time"

	"github.com/lk2023060901/struct-archiver-go/internal/compressor"
	"github.com/lk2023060901/struct-archiver-go/internal/framer"
	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/log"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/viper"
)

// EnvPrefix 为环境变量覆盖配置时使用的前缀，例如 ARCHIVER_ARCHIVE_MAX_DEPTH。
const EnvPrefix = "ARCHIVER"

// Config 为进程级配置。
//
//	archive:
//	  element-policy: error        # error | drop
//	  duplicate-key-policy: error  # error | last-wins
//	  max-depth: 64
//	  max-record-size: 0           # 0 表示不限制
//	  batch-concurrency: 0         # 0 表示 GOMAXPROCS
//	  batch-non-blocking: false    # true 时池满直接拒绝
//	  batch-idle-timeout: 0s       # 空闲 worker 回收间隔，0 为默认值
//	  enable-metrics: false
//	framer:
//	  max-frame-size: 16777216
//	  compression: none            # none | zstd
//	log:
//	  level: info
//	  format: console
//	  stdout: true
type Config struct {
	Archive ArchiveConfig `mapstructure:"archive"`
	Framer  FramerConfig  `mapstructure:"framer"`
	Log     log.Config    `mapstructure:"log"`
}

type ArchiveConfig struct {
	ElementPolicy      string        `mapstructure:"element-policy"`
	DuplicateKeyPolicy string        `mapstructure:"duplicate-key-policy"`
	MaxDepth           int           `mapstructure:"max-depth"`
	MaxRecordSize      int           `mapstructure:"max-record-size"`
	BatchConcurrency   int           `mapstructure:"batch-concurrency"`
	BatchNonBlocking   bool          `mapstructure:"batch-non-blocking"`
	BatchIdleTimeout   time.Duration `mapstructure:"batch-idle-timeout"`
	EnableMetrics      bool          `mapstructure:"enable-metrics"`
}

type FramerConfig struct {
	MaxFrameSize uint32 `mapstructure:"max-frame-size"`
	Compression  string `mapstructure:"compression"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{
			ElementPolicy:      archive.ElementError.String(),
			DuplicateKeyPolicy: archive.DuplicateKeyError.String(),
			MaxDepth:           archive.DefaultMaxDepth,
		},
		Framer: FramerConfig{
			MaxFrameSize: framer.DefaultMaxFrameSize,
			Compression:  compressor.NameNone,
		},
		Log: log.Config{
			Level:  "info",
			Format: "console",
			Stdout: true,
		},
	}
}

func setDefaults(v *viper.Config, cfg *Config) {
	v.SetDefault("archive.element-policy", cfg.Archive.ElementPolicy)
	v.SetDefault("archive.duplicate-key-policy", cfg.Archive.DuplicateKeyPolicy)
	v.SetDefault("archive.max-depth", cfg.Archive.MaxDepth)
	v.SetDefault("archive.max-record-size", cfg.Archive.MaxRecordSize)
	v.SetDefault("archive.batch-concurrency", cfg.Archive.BatchConcurrency)
	v.SetDefault("archive.batch-non-blocking", cfg.Archive.BatchNonBlocking)
	v.SetDefault("archive.batch-idle-timeout", cfg.Archive.BatchIdleTimeout)
	v.SetDefault("archive.enable-metrics", cfg.Archive.EnableMetrics)
	v.SetDefault("framer.max-frame-size", cfg.Framer.MaxFrameSize)
	v.SetDefault("framer.compression", cfg.Framer.Compression)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.stdout", cfg.Log.Stdout)
	v.SetDefault("log.file.rootpath", cfg.Log.File.RootPath)
	v.SetDefault("log.file.filename", cfg.Log.File.Filename)
}

// Load 读取 path 指定的配置文件，并叠加 ARCHIVER_* 环境变量。
// required 为 false 时文件不存在视为使用默认配置。
func Load(path string, required bool) (*Config, error) {
	v := viper.New(viper.WithEnvPrefix(EnvPrefix))
	setDefaults(v, Default())

	if path != "" {
		if required {
			if err := v.LoadFile(path); err != nil {
				return nil, err
			}
		} else if _, err := v.LoadFileIfExists(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("unmarshal config %s: %s", path, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置取值范围。
func (c *Config) Validate() error {
	if _, err := c.Archive.Options(nil); err != nil {
		return err
	}
	if c.Archive.MaxDepth < 0 {
		return merr.WrapErrParameterInvalidMsg("archive.max-depth must not be negative, got %d", c.Archive.MaxDepth)
	}
	if c.Archive.MaxRecordSize < 0 {
		return merr.WrapErrParameterInvalidMsg("archive.max-record-size must not be negative, got %d", c.Archive.MaxRecordSize)
	}
	switch strings.ToLower(c.Framer.Compression) {
	case "", compressor.NameNone, compressor.NameZstd:
	default:
		return merr.WrapErrParameterInvalidMsg("framer.compression must be none or zstd, got %q", c.Framer.Compression)
	}
	if c.Archive.BatchIdleTimeout < 0 {
		return merr.WrapErrParameterInvalidMsg("archive.batch-idle-timeout must not be negative, got %s", c.Archive.BatchIdleTimeout)
	}
	if c.Archive.BatchConcurrency < 0 {
		return merr.WrapErrParameterInvalidMsg("archive.batch-concurrency must not be negative, got %d", c.Archive.BatchConcurrency)
	}
	return nil
}

// MaxDecodedSize 返回单帧解压后允许的最大字节数：优先取 archive.max-record-size，
// 否则取 framer.max-frame-size。
func (c *Config) MaxDecodedSize() int {
	if c.Archive.MaxRecordSize > 0 {
		return c.Archive.MaxRecordSize
	}
	if c.Framer.MaxFrameSize > 0 {
		return int(c.Framer.MaxFrameSize)
	}
	return int(framer.DefaultMaxFrameSize)
}

// Options 把 archive 段转换为 archive.Options。
func (c ArchiveConfig) Options(registry *archive.Registry) (archive.Options, error) {
	elementPolicy, err := archive.ParseElementPolicy(c.ElementPolicy)
	if err != nil {
		return archive.Options{}, err
	}
	duplicateKeyPolicy, err := archive.ParseDuplicateKeyPolicy(c.DuplicateKeyPolicy)
	if err != nil {
		return archive.Options{}, err
	}
	return archive.Options{
		Registry:           registry,
		ElementPolicy:      elementPolicy,
		DuplicateKeyPolicy: duplicateKeyPolicy,
		MaxDepth:           c.MaxDepth,
		MaxRecordSize:      c.MaxRecordSize,
		BatchConcurrency:   c.BatchConcurrency,
		BatchNonBlocking:   c.BatchNonBlocking,
		BatchIdleTimeout:   c.BatchIdleTimeout,
		EnableMetrics:      c.EnableMetrics,
	}, nil
}
