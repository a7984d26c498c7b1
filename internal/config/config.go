package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры синтеза
type Config struct {
	App       AppConfig
	Synthesis SynthesisConfig
	XTTS      XTTSConfig
	VibeVoice VibeVoiceConfig
	Audio     AudioConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
	LogFile  string
}

// SynthesisConfig содержит общие настройки запуска модели
type SynthesisConfig struct {
	TempDir string
	Timeout time.Duration
}

// XTTSConfig содержит настройки клонирования голоса через Coqui TTS
type XTTSConfig struct {
	Command      string
	SearchPaths  []string
	ModelName    string
	SpeakerVoice string
}

// VibeVoiceConfig содержит настройки внешней программы VibeVoice
type VibeVoiceConfig struct {
	Command      string
	WorkDir      string
	OutputDir    string
	Model        string
	RemotePrefix string
	LocalModel   string
}

// AudioConfig содержит параметры постобработки аудио
type AudioConfig struct {
	Enhance     bool // значение по умолчанию для флага --enhance
	SampleRate  int
	TrimTopDB   float64
	PreEmphasis float64
}

// MetricsConfig содержит настройки выгрузки метрик
type MetricsConfig struct {
	TextfilePath string
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.LogFile = os.Getenv("LOG_FILE")

	// Synthesis
	cfg.Synthesis.TempDir = getEnvDefault("TEMP_DIR", "./temp")
	cfg.Synthesis.Timeout = time.Duration(getEnvIntDefault("SYNTHESIS_TIMEOUT_SECONDS", 300)) * time.Second

	// XTTS
	cfg.XTTS.Command = getEnvDefault("XTTS_COMMAND", "tts")
	cfg.XTTS.SearchPaths = getEnvListDefault("XTTS_SEARCH_PATHS", []string{
		"/usr/local/bin/tts",
		"/opt/tts_env/bin/tts",
	})
	cfg.XTTS.ModelName = getEnvDefault("XTTS_MODEL_NAME", "tts_models/multilingual/multi-dataset/xtts_v2")
	cfg.XTTS.SpeakerVoice = getEnvDefault("XTTS_SPEAKER_VOICE", "temp/speaker.wav")

	// VibeVoice
	cfg.VibeVoice.Command = getEnvDefault("VIBEVOICE_COMMAND", "python demo/inference_from_file.py")
	cfg.VibeVoice.WorkDir = getEnvDefault("VIBEVOICE_WORKDIR", ".")
	cfg.VibeVoice.OutputDir = getEnvDefault("VIBEVOICE_OUTPUT_DIR", "./outputs")
	cfg.VibeVoice.Model = getEnvDefault("VIBEVOICE_MODEL", "WestZhang/VibeVoice-Large-pt")
	cfg.VibeVoice.RemotePrefix = getEnvDefault("VIBEVOICE_REMOTE_PREFIX", "WestZhang/")
	cfg.VibeVoice.LocalModel = getEnvDefault("VIBEVOICE_LOCAL_MODEL", "./models/vibevoice-large")

	// Audio
	cfg.Audio.Enhance = getEnvBoolDefault("AUDIO_ENHANCE", true)
	cfg.Audio.SampleRate = getEnvIntDefault("AUDIO_SAMPLE_RATE", 22050)
	cfg.Audio.TrimTopDB = getEnvFloatDefault("AUDIO_TRIM_TOP_DB", 20)
	cfg.Audio.PreEmphasis = getEnvFloatDefault("AUDIO_PREEMPHASIS", 0.97)

	// Metrics
	cfg.Metrics.TextfilePath = os.Getenv("METRICS_TEXTFILE")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvListDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var list []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Synthesis.TempDir == "" {
		return fmt.Errorf("TEMP_DIR не установлен")
	}
	if config.Synthesis.Timeout <= 0 {
		return fmt.Errorf("SYNTHESIS_TIMEOUT_SECONDS должен быть положительным")
	}
	if strings.TrimSpace(config.XTTS.Command) == "" {
		return fmt.Errorf("XTTS_COMMAND не установлен")
	}
	if strings.TrimSpace(config.VibeVoice.Command) == "" {
		return fmt.Errorf("VIBEVOICE_COMMAND не установлен")
	}
	if config.VibeVoice.OutputDir == "" {
		return fmt.Errorf("VIBEVOICE_OUTPUT_DIR не установлен")
	}
	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("AUDIO_SAMPLE_RATE должен быть положительным")
	}
	if config.Audio.TrimTopDB <= 0 {
		return fmt.Errorf("AUDIO_TRIM_TOP_DB должен быть положительным")
	}
	if config.Audio.PreEmphasis < 0 || config.Audio.PreEmphasis >= 1 {
		return fmt.Errorf("AUDIO_PREEMPHASIS должен быть в диапазоне [0, 1)")
	}

	return nil
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
