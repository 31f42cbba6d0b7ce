package application

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lk2023060901/struct-archiver-go/internal/codec"
	"github.com/lk2023060901/struct-archiver-go/internal/compressor"
	"github.com/lk2023060901/struct-archiver-go/internal/config"
	"github.com/lk2023060901/struct-archiver-go/internal/framer"
	"github.com/lk2023060901/struct-archiver-go/internal/serializer"
	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/log"
	"github.com/lk2023060901/struct-archiver-go/pkg/metrics"
)

const (
	// DefaultConfigPath 为默认配置文件路径，文件不存在时使用默认配置。
	DefaultConfigPath = "./archiver.yaml"
	// EnvConfigPath 指定配置文件路径的环境变量。
	EnvConfigPath = "ARCHIVER_CONFIG_FILE_PATH"
)

// Application 是归档工具的运行时容器，持有配置、注册表与 Archiver。
type Application struct {
	configPath  string
	activations []archive.Activation
	registerer  prometheus.Registerer

	cfg        *config.Config
	archiver   *archive.Archiver
	compressor compressor.Compressor
}

// Option 用于配置 Application。
type Option func(a *Application)

// WithConfigPath 指定配置文件路径（通常来自 --config），优先级最高。
func WithConfigPath(path string) Option {
	return func(a *Application) {
		a.configPath = path
	}
}

// WithActivations 在标准类型之后登记调用方自定义的复合记录类型。
func WithActivations(activations ...archive.Activation) Option {
	return func(a *Application) {
		a.activations = append(a.activations, activations...)
	}
}

// WithRegisterer 指定指标注册到的 Registerer，默认为 prometheus.DefaultRegisterer。
func WithRegisterer(r prometheus.Registerer) Option {
	return func(a *Application) {
		a.registerer = r
	}
}

// New creates a new Application instance.
func New(opts ...Option) *Application {
	a := &Application{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run 加载配置、初始化日志与指标，并构造 Archiver。
//
// 配置文件路径优先级：
//  1. 默认：./archiver.yaml（不存在时使用默认配置）
//  2. 环境变量：ARCHIVER_CONFIG_FILE_PATH
//  3. 命令行：--config <path>
func (a *Application) Run() error {
	path, required := a.resolveConfigPath()
	cfg, err := config.Load(path, required)
	if err != nil {
		return errors.Wrapf(err, "load config %q", path)
	}
	a.cfg = cfg

	if err := a.initLogging(); err != nil {
		return err
	}
	if cfg.Archive.EnableMetrics {
		metrics.Register(a.registerer)
	}

	registry, err := archive.NewStandardRegistry(a.activations...)
	if err != nil {
		return err
	}
	registry.Freeze()

	opts, err := cfg.Archive.Options(registry)
	if err != nil {
		return err
	}
	a.archiver, err = archive.New(opts)
	if err != nil {
		return err
	}
	a.compressor, err = compressor.New(cfg.Framer.Compression, cfg.MaxDecodedSize())
	if err != nil {
		a.archiver.Close()
		a.archiver = nil
		return err
	}
	log.Debug("application started",
		zap.String("config", path),
		zap.String("version", Version),
		zap.Int("identifiers", registry.Identifiers().Len()))
	return nil
}

func (a *Application) resolveConfigPath() (path string, required bool) {
	if a.configPath != "" {
		return a.configPath, true
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath, true
	}
	return DefaultConfigPath, false
}

func (a *Application) initLogging() error {
	logger, props, err := log.InitLogger(&a.cfg.Log)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	log.ReplaceGlobals(logger, props)
	return nil
}

// Config 返回已加载的配置，Run 之前为 nil。
func (a *Application) Config() *config.Config {
	return a.cfg
}

// Archiver 返回 Run 构造的 Archiver。
func (a *Application) Archiver() *archive.Archiver {
	return a.archiver
}

// Codec 返回以 s 为负载格式、按 framer 配置分帧与压缩的 Codec；s 为 nil 时使用归档格式。
func (a *Application) Codec(s serializer.Serializer) (codec.Codec, error) {
	if s == nil {
		s = serializer.NewArchiveSerializer(a.archiver)
	}
	return codec.New(codec.Options{
		Framer:     framer.NewLengthPrefixedFramer(a.cfg.Framer.MaxFrameSize),
		Serializer: s,
		Compressor: a.compressor,
	})
}

// Close 释放 Archiver 与压缩器并刷新日志。
func (a *Application) Close() {
	if a.archiver != nil {
		a.archiver.Close()
	}
	if zc, ok := a.compressor.(*compressor.ZstdCompressor); ok {
		zc.Close()
	}
	_ = log.Sync()
}
