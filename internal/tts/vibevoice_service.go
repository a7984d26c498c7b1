package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"voice-synth/internal/config"
)

// VibeVoiceService синтезирует диалоги несколькими голосами через программу VibeVoice
type VibeVoiceService struct {
	logger    *zap.Logger
	command   string
	workDir   string
	outputDir string
	tempDir   string
	timeout   time.Duration
}

// NewVibeVoiceService создает новый VibeVoice сервис
func NewVibeVoiceService(logger *zap.Logger, cfg config.VibeVoiceConfig, synthesis config.SynthesisConfig) *VibeVoiceService {
	return &VibeVoiceService{
		logger:    logger.With(zap.String("backend", "vibevoice")),
		command:   cfg.Command,
		workDir:   cfg.WorkDir,
		outputDir: cfg.OutputDir,
		tempDir:   synthesis.TempDir,
		timeout:   synthesis.Timeout,
	}
}

// Name возвращает имя бэкенда
func (s *VibeVoiceService) Name() string {
	return "vibevoice"
}

// CheckDependencies проверяет интерпретатор и скрипт инференса
func (s *VibeVoiceService) CheckDependencies() []string {
	argv, err := parseCommand(s.command)
	if err != nil {
		return []string{s.command}
	}

	var missing []string
	if !lookupProgram(argv[0]) {
		missing = append(missing, argv[0])
	}
	for _, arg := range argv[1:] {
		if strings.HasSuffix(arg, ".py") && !fileExistsIn(s.workDir, arg) {
			missing = append(missing, arg)
		}
	}
	return missing
}

// Synthesize записывает текст во временный файл, запускает VibeVoice и
// находит сгенерированный файл по шаблону имени
func (s *VibeVoiceService) Synthesize(ctx context.Context, req Request) (string, error) {
	argv, err := parseCommand(s.command)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания временной директории: %w", err)
	}
	if err := os.MkdirAll(s.outputPath(), 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории вывода: %w", err)
	}

	tempTextFile, err := filepath.Abs(filepath.Join(s.tempDir, fmt.Sprintf("temp_%d.txt", os.Getpid())))
	if err != nil {
		return "", fmt.Errorf("ошибка определения пути временного файла: %w", err)
	}
	if err := os.WriteFile(tempTextFile, []byte(req.Text), 0644); err != nil {
		return "", fmt.Errorf("ошибка записи текста: %w", err)
	}
	defer cleanupFile(s.logger, tempTextFile)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	argv = append(argv,
		"--model_path", req.Model,
		"--txt_path", tempTextFile,
		"--speaker_names", strings.Join(req.Speakers, ","),
	)

	s.logger.Info("🎵 генерируем аудио через VibeVoice",
		zap.Strings("speakers", req.Speakers),
		zap.String("model", req.Model),
		zap.Int("text_length", len(req.Text)))

	stem := strings.TrimSuffix(filepath.Base(tempTextFile), filepath.Ext(tempTextFile))
	pattern := stem + "_generated.wav"
	searchPath := s.outputPath()
	generated := filepath.Join(searchPath, pattern)

	// Файл прошлого запуска с тем же pid не должен сойти за результат
	cleanupFile(s.logger, generated)

	if _, err := runCommand(ctx, s.logger, s.workDir, argv); err != nil {
		cleanupFile(s.logger, generated)
		return "", err
	}

	matches, err := filepath.Glob(filepath.Join(searchPath, pattern))
	if err != nil || len(matches) == 0 {
		s.logger.Error("сгенерированный файл не найден",
			zap.String("search_path", searchPath),
			zap.String("pattern", pattern))
		return "", &OutputNotFoundError{SearchPath: searchPath, Pattern: pattern}
	}

	s.logger.Info("🎵 аудио успешно сгенерировано", zap.String("file", matches[0]))
	return matches[0], nil
}

// outputPath возвращает директорию вывода относительно рабочей директории программы
func (s *VibeVoiceService) outputPath() string {
	if filepath.IsAbs(s.outputDir) {
		return s.outputDir
	}
	return filepath.Join(s.workDir, s.outputDir)
}

func fileExistsIn(dir, name string) bool {
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	_, err := os.Stat(name)
	return err == nil
}
