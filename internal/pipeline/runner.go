package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"voice-synth/internal/audio"
	"voice-synth/internal/metrics"
	"voice-synth/internal/text"
	"voice-synth/internal/tts"
	"voice-synth/internal/validation"
	"voice-synth/pkg/models"
)

// Результаты постобработки для метрик
const (
	conditioningApplied  = "applied"
	conditioningFallback = "fallback"
	conditioningSkipped  = "skipped"
)

// Conditioner улучшает сырое аудио; false означает, что нужен сырой файл
type Conditioner interface {
	Condition(rawPath, finalPath string, opts audio.Options) bool
}

// Runner выполняет один запрос: проверка, подготовка текста, синтез,
// постобработка. Все состояние запуска живет в Runner.
type Runner struct {
	logger      *zap.Logger
	validator   *validation.Validator
	synth       tts.Synthesizer
	conditioner Conditioner
	metrics     *metrics.Metrics
	timeout     time.Duration
}

// NewRunner создает новый исполнитель запроса
func NewRunner(logger *zap.Logger, validator *validation.Validator, synth tts.Synthesizer, conditioner Conditioner, m *metrics.Metrics, timeout time.Duration) *Runner {
	return &Runner{
		logger:      logger,
		validator:   validator,
		synth:       synth,
		conditioner: conditioner,
		metrics:     m,
		timeout:     timeout,
	}
}

// Validate выполняет только проверки без синтеза
func (r *Runner) Validate(ctx context.Context, req models.SynthesisRequest) models.Outcome {
	outcome := r.check(ctx, req)
	if outcome == nil {
		outcome = &models.Outcome{
			Kind:    models.KindSuccess,
			Success: true,
			Message: models.MessageValidationOK,
			Format:  req.Format,
		}
		r.describe(outcome, req)
	}
	r.metrics.RecordRun(r.synth.Name(), string(outcome.Kind))
	return *outcome
}

// Run выполняет полный цикл синтеза и всегда возвращает исход
func (r *Runner) Run(ctx context.Context, req models.SynthesisRequest) (outcome models.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("непредвиденная паника", zap.Any("panic", p), zap.Stack("stack"))
			outcome = models.Failure(models.KindUnexpected, models.ErrorUnexpected, fmt.Sprint(p))
		}
		r.metrics.RecordRun(r.synth.Name(), string(outcome.Kind))
	}()

	if failed := r.check(ctx, req); failed != nil {
		return *failed
	}

	scriptText := r.prepareText(req)

	started := time.Now()
	rawPath, err := r.synth.Synthesize(ctx, tts.Request{
		Text:         scriptText,
		SpeakerVoice: req.SpeakerVoice,
		Speakers:     req.Speakers,
		Language:     req.Language,
		Model:        req.Model,
	})
	r.metrics.RecordSynthesis(r.synth.Name(), time.Since(started))
	if err != nil {
		return r.synthesisFailure(ctx, err)
	}
	defer func() {
		if err := audio.RemoveFiles(rawPath); err != nil {
			r.logger.Warn("ошибка удаления сырого аудио", zap.Error(err))
		}
	}()

	if err := ctx.Err(); err != nil {
		return cancelled()
	}

	conditioned, err := r.finalize(rawPath, req)
	if err != nil {
		r.logger.Error("ошибка сохранения итогового файла", zap.Error(err))
		return models.Failure(models.KindUnexpected, models.ErrorUnexpected, err.Error())
	}

	// Прерывание во время постобработки отменяет весь запуск
	if err := ctx.Err(); err != nil {
		if rmErr := audio.RemoveFiles(req.OutputPath); rmErr != nil {
			r.logger.Warn("ошибка удаления итогового файла", zap.Error(rmErr))
		}
		return cancelled()
	}

	return r.success(req, conditioned)
}

// check проверяет запрос и зависимости; nil означает, что можно синтезировать
func (r *Runner) check(ctx context.Context, req models.SynthesisRequest) *models.Outcome {
	if ctx.Err() != nil {
		o := cancelled()
		return &o
	}

	if violations := r.validator.Validate(req); len(violations) > 0 {
		r.logger.Error("запрос не прошел проверку", zap.Strings("violations", violations))
		o := models.Failure(models.KindValidation, models.ErrorValidation, violations)
		return &o
	}

	if missing := r.synth.CheckDependencies(); len(missing) > 0 {
		r.logger.Error("отсутствуют зависимости", zap.Strings("missing", missing))
		o := models.Failure(models.KindDependencyMissing, models.ErrorDependencies, missing)
		return &o
	}

	return nil
}

// prepareText размечает диалог и нормализует текст
func (r *Runner) prepareText(req models.SynthesisRequest) string {
	if !req.IsDialogue() {
		normalized := text.Normalize(req.Text)
		r.logger.Info("текст подготовлен", zap.String("text", preview(normalized)))
		return normalized
	}

	script := text.FormatDialogue(req.Text, req.Speakers).MapUtterances(text.Normalize)
	for _, line := range script.Fallbacks() {
		r.logger.Warn("говорящий не найден в ростере, реплика отдана первому",
			zap.String("speaker", line.Speaker),
			zap.String("utterance", preview(line.Utterance)))
	}
	r.logger.Info("диалог размечен",
		zap.Int("lines", script.Len()),
		zap.Strings("speakers", req.Speakers))
	return script.String()
}

// finalize кладет результат по итоговому пути: улучшенный файл или, если
// улучшение не удалось, сырой файл как есть
func (r *Runner) finalize(rawPath string, req models.SynthesisRequest) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return false, fmt.Errorf("ошибка создания директории вывода: %w", err)
	}

	if req.Enhance {
		opts := audio.Options{Normalize: req.Normalize, TrimSilence: req.TrimSilence}
		if r.conditioner.Condition(rawPath, req.OutputPath, opts) {
			r.metrics.RecordConditioning(conditioningApplied)
			return true, nil
		}
		r.metrics.RecordConditioning(conditioningFallback)
		r.logger.Warn("используем исходный файл без улучшения", zap.String("output", req.OutputPath))
	} else {
		r.metrics.RecordConditioning(conditioningSkipped)
	}

	if err := audio.MoveFile(rawPath, req.OutputPath); err != nil {
		return false, err
	}
	return false, nil
}

func (r *Runner) success(req models.SynthesisRequest, conditioned bool) models.Outcome {
	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return models.Failure(models.KindSynthesis, models.ErrorSynthesis, "Speech synthesis failed - no output file created")
	}

	size := info.Size()
	outcome := models.Outcome{
		Kind:          models.KindSuccess,
		Success:       true,
		OutputFile:    req.OutputPath,
		TextLength:    utf8.RuneCountInString(req.Text),
		FileSizeBytes: &size,
		Conditioned:   &conditioned,
	}
	r.describe(&outcome, req)

	if meta, err := audio.Probe(req.OutputPath); err == nil {
		outcome.Metadata = meta
	} else {
		r.logger.Debug("не удалось прочитать параметры аудио", zap.Error(err))
	}

	r.metrics.RecordOutput(outcome.TextLength, size)
	r.logger.Info("синтез завершен",
		zap.String("output", req.OutputPath),
		zap.Int64("size", size),
		zap.Bool("conditioned", conditioned))
	return outcome
}

// describe заполняет поля, зависящие от режима
func (r *Runner) describe(outcome *models.Outcome, req models.SynthesisRequest) {
	switch req.Mode {
	case models.ModeMultiSpeaker:
		outcome.Speakers = req.Speakers
		outcome.Format = req.Format
		outcome.Model = req.Model
	default:
		outcome.Language = req.Language
		outcome.SpeakerVoice = req.SpeakerVoice
	}
}

// synthesisFailure переводит ошибку бэкенда в исход
func (r *Runner) synthesisFailure(ctx context.Context, err error) models.Outcome {
	var (
		exitErr  *tts.ExitError
		notFound *tts.OutputNotFoundError
	)

	switch {
	case errors.Is(err, tts.ErrTimeout):
		r.logger.Error("синтез превысил лимит времени", zap.Error(err))
		return models.Failure(models.KindTimeout, models.ErrorTimeout, fmt.Sprintf("Operation took longer than %d seconds", int(r.timeout.Seconds())))
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return cancelled()
	case errors.As(err, &exitErr):
		details := exitErr.Stderr
		if details == "" {
			details = "Unknown error"
		}
		o := models.Failure(models.KindSynthesis, models.ErrorSynthesis, details)
		code := exitErr.ExitCode
		o.ReturnCode = &code
		return o
	case errors.As(err, &notFound):
		o := models.Failure(models.KindSynthesis, models.ErrorOutputNotFound, nil)
		o.SearchPath = notFound.SearchPath
		o.Pattern = notFound.Pattern
		return o
	default:
		r.logger.Error("ошибка синтеза", zap.Error(err))
		return models.Failure(models.KindSynthesis, models.ErrorSynthesis, err.Error())
	}
}

func cancelled() models.Outcome {
	return models.Failure(models.KindCancelled, models.ErrorCancelled, nil)
}

// preview обрезает текст для логов
func preview(s string) string {
	const limit = 100
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
