// Package cli связывает конфигурацию, логирование, канал результата и
// конвейер синтеза в одну команду.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"voice-synth/internal/audio"
	"voice-synth/internal/config"
	"voice-synth/internal/metrics"
	"voice-synth/internal/pipeline"
	"voice-synth/internal/result"
	"voice-synth/internal/tts"
	"voice-synth/internal/validation"
	"voice-synth/pkg/models"
)

// Run выполняет один запуск синтеза и возвращает код завершения процесса.
// В stdout попадает ровно один JSON документ; все остальное уходит в stderr.
func Run(backend string, args []string) int {
	cfg, cfgErr := config.Load()

	appCfg := config.AppConfig{LogLevel: "info"}
	if cfg != nil {
		appCfg = cfg.App
	}
	logger, err := initLogger(appCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логгера: %v\n", err)
		logger = zap.NewNop()
	}
	defer logger.Sync()

	channel := result.Open(logger, os.Stdout, os.Stderr)
	defer func() {
		if err := channel.Close(); err != nil {
			logger.Error("ошибка восстановления stdout", zap.Error(err))
		}
	}()

	// Обработка сигналов: отмена контекста останавливает дочерний процесс
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("получен сигнал, отменяем синтез", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	var outcome models.Outcome
	if cfgErr != nil {
		logger.Error("ошибка загрузки конфигурации", zap.Error(cfgErr))
		outcome = models.Failure(models.KindConfiguration, models.ErrorConfiguration, cfgErr.Error())
	} else {
		outcome = execute(ctx, logger, cfg, backend, args)
	}

	if err := channel.Emit(outcome); err != nil {
		logger.Error("ошибка отправки результата", zap.Error(err))
		return 1
	}
	return outcome.ExitCode()
}

// execute разбирает аргументы, собирает бэкенд и запускает конвейер
func execute(ctx context.Context, logger *zap.Logger, cfg *config.Config, backend string, args []string) models.Outcome {
	req, err := parseRequest(backend, cfg, args, os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Error("некорректные аргументы", zap.Error(err))
		}
		return models.Failure(models.KindInvalidArgs, models.ErrorInvalidArgs, err.Error())
	}

	synth, err := newSynthesizer(logger, cfg, backend)
	if err != nil {
		return models.Failure(models.KindConfiguration, models.ErrorConfiguration, err.Error())
	}

	resolver := validation.ModelResolver{
		RemoteID:     cfg.VibeVoice.Model,
		LocalMirror:  cfg.VibeVoice.LocalModel,
		RemotePrefix: cfg.VibeVoice.RemotePrefix,
	}
	if req.Model != "" {
		req.Model = resolver.Locate(req.Model)
	}

	m := metrics.New(logger)
	defer func() {
		if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn("метрики не сохранены", zap.Error(err))
		}
	}()

	runner := pipeline.NewRunner(
		logger,
		validation.NewValidator(resolver),
		synth,
		audio.NewConditioner(logger, cfg.Audio),
		m,
		cfg.Synthesis.Timeout,
	)

	logger.Info("запуск синтеза",
		zap.String("backend", synth.Name()),
		zap.String("output", req.OutputPath),
		zap.Bool("validate_only", req.ValidateOnly))

	if req.ValidateOnly {
		return runner.Validate(ctx, req)
	}
	return runner.Run(ctx, req)
}

// newSynthesizer создает бэкенд синтеза по имени
func newSynthesizer(logger *zap.Logger, cfg *config.Config, backend string) (tts.Synthesizer, error) {
	switch backend {
	case BackendXTTS:
		return tts.NewCloneService(logger, tts.NewCoquiCLI(logger, cfg.XTTS), cfg.Synthesis), nil
	case BackendVibeVoice:
		return tts.NewVibeVoiceService(logger, cfg.VibeVoice, cfg.Synthesis), nil
	default:
		return nil, fmt.Errorf("неизвестный бэкенд: %s", backend)
	}
}

// initLogger инициализирует логгер; весь вывод идет в диагностический канал
func initLogger(cfg config.AppConfig) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = cfg.GetLogLevel()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	if cfg.LogFile != "" {
		// Создаем директорию для логов если её нет
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, fmt.Errorf("ошибка создания директории логов: %w", err)
		}
		config.OutputPaths = append(config.OutputPaths, cfg.LogFile)
	}

	return config.Build()
}
