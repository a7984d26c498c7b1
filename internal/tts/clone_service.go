package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"voice-synth/internal/config"
)

// CloneParams содержит параметры вызова модели клонирования голоса
type CloneParams struct {
	Text         string
	SpeakerVoice string
	Language     string
	OutPath      string
}

// CloneModel представляет модель, которая синтезирует речь голосом из референсной записи
type CloneModel interface {
	MissingDependencies() []string
	SynthesizeToFile(ctx context.Context, params CloneParams) error
}

// CloneService синтезирует речь клонированным голосом.
// Модель пишет во временный файл, поэтому сбой посреди синтеза не оставляет
// испорченного файла по итоговому пути.
type CloneService struct {
	logger  *zap.Logger
	model   CloneModel
	tempDir string
	timeout time.Duration
}

// NewCloneService создает новый сервис клонирования голоса
func NewCloneService(logger *zap.Logger, model CloneModel, synthesis config.SynthesisConfig) *CloneService {
	return &CloneService{
		logger:  logger.With(zap.String("backend", "xtts")),
		model:   model,
		tempDir: synthesis.TempDir,
		timeout: synthesis.Timeout,
	}
}

// Name возвращает имя бэкенда
func (s *CloneService) Name() string {
	return "xtts"
}

// CheckDependencies проверяет доступность модели
func (s *CloneService) CheckDependencies() []string {
	return s.model.MissingDependencies()
}

// Synthesize синтезирует речь во временный файл
func (s *CloneService) Synthesize(ctx context.Context, req Request) (string, error) {
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания временной директории: %w", err)
	}
	tempAudioFile := filepath.Join(s.tempDir, fmt.Sprintf("raw_%d.wav", os.Getpid()))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("🎵 генерируем аудио клонированным голосом",
		zap.String("speaker_voice", req.SpeakerVoice),
		zap.String("language", req.Language),
		zap.Int("text_length", len(req.Text)))

	err := s.model.SynthesizeToFile(ctx, CloneParams{
		Text:         req.Text,
		SpeakerVoice: req.SpeakerVoice,
		Language:     req.Language,
		OutPath:      tempAudioFile,
	})
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		cleanupFile(s.logger, tempAudioFile)
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrTimeout
		}
		return "", err
	}

	if _, err := os.Stat(tempAudioFile); err != nil {
		s.logger.Error("аудио файл не был создан", zap.String("filename", tempAudioFile))
		return "", &OutputNotFoundError{
			SearchPath: s.tempDir,
			Pattern:    filepath.Base(tempAudioFile),
		}
	}

	s.logger.Info("🎵 аудио успешно сгенерировано", zap.String("file", tempAudioFile))
	return tempAudioFile, nil
}
