package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	t.Setenv("TEMP_DIR", "/tmp/voice-synth")
	t.Setenv("SYNTHESIS_TIMEOUT_SECONDS", "120")
	t.Setenv("VIBEVOICE_COMMAND", "python3 demo/inference_from_file.py")
	t.Setenv("XTTS_SEARCH_PATHS", "/a/tts, /b/tts")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/tmp/voice-synth", cfg.Synthesis.TempDir)
	assert.Equal(t, 120*time.Second, cfg.Synthesis.Timeout)
	assert.Equal(t, "python3 demo/inference_from_file.py", cfg.VibeVoice.Command)
	assert.Equal(t, []string{"/a/tts", "/b/tts"}, cfg.XTTS.SearchPaths)

	// Проверяем значения по умолчанию
	assert.Equal(t, "tts", cfg.XTTS.Command)
	assert.Equal(t, "tts_models/multilingual/multi-dataset/xtts_v2", cfg.XTTS.ModelName)
	assert.Equal(t, "WestZhang/VibeVoice-Large-pt", cfg.VibeVoice.Model)
	assert.Equal(t, "WestZhang/", cfg.VibeVoice.RemotePrefix)
	assert.Equal(t, "./outputs", cfg.VibeVoice.OutputDir)
	assert.True(t, cfg.Audio.Enhance)
	assert.Equal(t, 22050, cfg.Audio.SampleRate)
	assert.Equal(t, 20.0, cfg.Audio.TrimTopDB)
	assert.Equal(t, 0.97, cfg.Audio.PreEmphasis)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Empty(t, cfg.Metrics.TextfilePath)
}

func TestLoadConfig_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("AUDIO_SAMPLE_RATE", "не число")
	t.Setenv("AUDIO_PREEMPHASIS", "abc")
	t.Setenv("AUDIO_ENHANCE", "может быть")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 22050, cfg.Audio.SampleRate)
	assert.Equal(t, 0.97, cfg.Audio.PreEmphasis)
	assert.True(t, cfg.Audio.Enhance)
}

func TestLoadConfig_DisableEnhance(t *testing.T) {
	t.Setenv("AUDIO_ENHANCE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Audio.Enhance)
}

func TestLoadConfig_RejectsBadTimeout(t *testing.T) {
	t.Setenv("SYNTHESIS_TIMEOUT_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "debug",
	}

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, zap.DebugLevel, cfg.GetLogLevel().Level())

	cfg.Env = "production"
	cfg.LogLevel = "unknown"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, zap.InfoLevel, cfg.GetLogLevel().Level())
}

func TestValidateConfig(t *testing.T) {
	// Тест с пустыми обязательными полями
	cfg := &Config{}
	err := validateConfig(cfg)
	assert.Error(t, err)

	// Тест с корректной конфигурацией
	cfg = &Config{
		Synthesis: SynthesisConfig{TempDir: "./temp", Timeout: time.Minute},
		XTTS:      XTTSConfig{Command: "tts"},
		VibeVoice: VibeVoiceConfig{Command: "python demo.py", OutputDir: "./outputs"},
		Audio:     AudioConfig{SampleRate: 22050, TrimTopDB: 20, PreEmphasis: 0.97},
	}
	err = validateConfig(cfg)
	assert.NoError(t, err)

	cfg.Audio.PreEmphasis = 1.5
	assert.Error(t, validateConfig(cfg))
}
