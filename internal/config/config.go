package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Groq      GroqConfig      `yaml:"groq" mapstructure:"groq"`
	Knowledge KnowledgeConfig `yaml:"knowledge" mapstructure:"knowledge"`
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Schema    SchemaConfig    `yaml:"schema" mapstructure:"schema"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the report store backend.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// GroqConfig holds Groq API settings.
type GroqConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// KnowledgeConfig configures the knowledge-base loader.
type KnowledgeConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	MaxChars      int    `yaml:"max_chars" mapstructure:"max_chars"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// GeneratorConfig configures the strategy generator's sampling and retry behavior.
type GeneratorConfig struct {
	MaxRetries      int           `yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	MinOutputChars  int           `yaml:"min_output_chars" mapstructure:"min_output_chars"`
	MaxOutputTokens int           `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
	Temperature     float64       `yaml:"temperature" mapstructure:"temperature"`
	TopP            float64       `yaml:"top_p" mapstructure:"top_p"`
	TopK            int           `yaml:"top_k" mapstructure:"top_k"`
	NoCache         bool          `yaml:"no_cache" mapstructure:"no_cache"`
}

// BatchConfig configures batch processing. MaxConcurrent of 1 means strictly
// sequential processing; values above 1 opt into a bounded worker pool.
type BatchConfig struct {
	MaxConcurrent int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RequestDelay  time.Duration `yaml:"request_delay" mapstructure:"request_delay"`
}

// SchemaConfig configures the column schema. Path optionally overrides the
// embedded canonical schema with an external YAML file.
type SchemaConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ReportConfig configures report persistence.
type ReportConfig struct {
	TTLHours int `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port          int   `yaml:"port" mapstructure:"port"`
	MaxUploadSize int64 `yaml:"max_upload_size" mapstructure:"max_upload_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FOLLOWUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "followup.db")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("knowledge.dir", "knowledge_base")
	v.SetDefault("knowledge.max_chars", 10000)
	v.SetDefault("knowledge.pdftotext_path", "pdftotext")
	v.SetDefault("generator.max_retries", 3)
	v.SetDefault("generator.retry_delay", "1s")
	v.SetDefault("generator.min_output_chars", 200)
	v.SetDefault("generator.max_output_tokens", 8192)
	v.SetDefault("generator.temperature", 0.8)
	v.SetDefault("generator.top_p", 0.95)
	v.SetDefault("generator.top_k", 40)
	v.SetDefault("generator.no_cache", false)
	v.SetDefault("batch.max_concurrent", 1)
	v.SetDefault("batch.request_delay", "500ms")
	v.SetDefault("report.ttl_hours", 24)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_size", 16<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
