package tts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voice-synth/internal/config"
)

// CoquiCLI вызывает XTTS-v2 через программу tts из пакета Coqui TTS
type CoquiCLI struct {
	logger      *zap.Logger
	command     string
	searchPaths []string
	modelName   string
	ttsPath     string // найденный путь к программе
}

// NewCoquiCLI создает модель клонирования на базе Coqui TTS
func NewCoquiCLI(logger *zap.Logger, cfg config.XTTSConfig) *CoquiCLI {
	return &CoquiCLI{
		logger:      logger,
		command:     cfg.Command,
		searchPaths: cfg.SearchPaths,
		modelName:   cfg.ModelName,
	}
}

// MissingDependencies возвращает недоступные зависимости; пустой список означает, что tts найден
func (m *CoquiCLI) MissingDependencies() []string {
	if err := m.findTTS(); err != nil {
		m.logger.Warn("coqui tts не найден", zap.Error(err))
		return []string{m.command}
	}
	return nil
}

// findTTS ищет программу tts по списку путей
func (m *CoquiCLI) findTTS() error {
	if m.ttsPath != "" {
		return nil
	}

	candidates := append([]string{m.command}, m.searchPaths...)
	for _, path := range candidates {
		if lookupCommand(path) {
			m.logger.Debug("coqui tts найден", zap.String("path", path))
			m.ttsPath = path
			return nil
		}
	}

	return fmt.Errorf("coqui tts не найден ни в одном из путей: %v", candidates)
}

// SynthesizeToFile синтезирует речь голосом из референсной записи
func (m *CoquiCLI) SynthesizeToFile(ctx context.Context, params CloneParams) error {
	if err := m.findTTS(); err != nil {
		return err
	}

	argv, err := parseCommand(m.ttsPath)
	if err != nil {
		return err
	}
	argv = append(argv,
		"--text", params.Text,
		"--model_name", m.modelName,
		"--speaker_wav", params.SpeakerVoice,
		"--language_idx", params.Language,
		"--out_path", params.OutPath,
	)

	_, err = runCommand(ctx, m.logger, "", argv)
	return err
}
