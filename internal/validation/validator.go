package validation

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"voice-synth/pkg/models"
)

// ModelResolver описывает, где искать модель для режима нескольких говорящих
type ModelResolver struct {
	RemoteID     string // идентификатор модели в удаленном реестре
	LocalMirror  string // локальная копия той же модели
	RemotePrefix string // модели с этим префиксом скачивает сама программа синтеза
}

// Resolve подменяет известный удаленный идентификатор локальным путем
func (r ModelResolver) Resolve(model string) string {
	if r.RemoteID == "" || r.LocalMirror == "" {
		return model
	}
	return strings.Replace(model, r.RemoteID, r.LocalMirror, 1)
}

// Locate возвращает локальную копию модели, если она есть, иначе исходное имя
func (r ModelResolver) Locate(model string) string {
	if local := r.Resolve(model); local != model && pathExists(local) {
		return local
	}
	return model
}

// IsRemote проверяет, что модель будет загружена из удаленного реестра
func (r ModelResolver) IsRemote(model string) bool {
	return r.RemotePrefix != "" && strings.HasPrefix(model, r.RemotePrefix)
}

// Validator проверяет запрос до начала синтеза
type Validator struct {
	models ModelResolver
}

// NewValidator создает новый валидатор запросов
func NewValidator(models ModelResolver) *Validator {
	return &Validator{models: models}
}

// Validate возвращает все найденные нарушения; пустой список означает валидный запрос.
// Проверки независимы и выполняются все.
func (v *Validator) Validate(req models.SynthesisRequest) []string {
	var errors []string

	if strings.TrimSpace(req.Text) == "" {
		errors = append(errors, "Text cannot be empty")
	}

	if limit := req.MaxTextLength(); utf8.RuneCountInString(req.Text) > limit {
		errors = append(errors, fmt.Sprintf("Text too long (max %d characters)", limit))
	}

	if req.OutputPath == "" {
		errors = append(errors, "Output file path is required")
	}

	if !strings.HasSuffix(strings.ToLower(req.OutputPath), models.AudioFileExtension) {
		errors = append(errors, "Output file must be .wav format")
	}

	if req.Format != "" && req.Format != models.FormatMonologue && req.Format != models.FormatDialogue {
		errors = append(errors, fmt.Sprintf("Unknown format: %s (expected monologue or dialogue)", req.Format))
	}

	switch req.Mode {
	case models.ModeVoiceClone:
		if req.SpeakerVoice == "" || !fileExists(req.SpeakerVoice) {
			errors = append(errors, fmt.Sprintf("Speaker voice file not found: %s", req.SpeakerVoice))
		}
	case models.ModeMultiSpeaker:
		if len(req.Speakers) == 0 {
			errors = append(errors, "Speaker list cannot be empty")
		}
		if !v.modelAvailable(req.Model) {
			errors = append(errors, fmt.Sprintf("Model path not found: %s", req.Model))
		}
	}

	return errors
}

// modelAvailable проверяет модель локально; удаленную модель проверит программа синтеза
func (v *Validator) modelAvailable(model string) bool {
	if model == "" {
		return false
	}
	if pathExists(v.models.Resolve(model)) {
		return true
	}
	return v.models.IsRemote(model) || pathExists(model)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
