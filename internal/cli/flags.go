package cli

import (
	"flag"
	"fmt"
	"io"

	"voice-synth/internal/config"
	"voice-synth/pkg/models"
)

// Имена бэкендов; каждому соответствует своя программа в cmd/
const (
	BackendXTTS      = "xtts"
	BackendVibeVoice = "vibevoice"
)

// parseRequest разбирает аргументы командной строки в запрос синтеза.
// Набор флагов зависит от бэкенда: клонирование принимает референсную запись
// и язык, VibeVoice принимает список говорящих и модель.
func parseRequest(backend string, cfg *config.Config, args []string, output io.Writer) (models.SynthesisRequest, error) {
	req := models.SynthesisRequest{}

	fs := flag.NewFlagSet(backend+"-synth", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&req.Text, "text", "", "Текст для синтеза")
	fs.StringVar(&req.OutputPath, "output", "", "Путь к итоговому .wav файлу")
	fs.StringVar(&req.Format, "format", models.FormatMonologue, "Формат текста: monologue или dialogue")
	fs.BoolVar(&req.ValidateOnly, "validate", false, "Только проверить параметры без синтеза")
	fs.BoolVar(&req.Enhance, "enhance", cfg.Audio.Enhance, "Улучшать аудио после синтеза")
	fs.BoolVar(&req.Normalize, "normalize", true, "Нормализовать громкость")
	fs.BoolVar(&req.TrimSilence, "trim-silence", true, "Обрезать тишину по краям")

	var speakers string
	switch backend {
	case BackendXTTS:
		req.Mode = models.ModeVoiceClone
		fs.StringVar(&req.SpeakerVoice, "speaker_voice", cfg.XTTS.SpeakerVoice, "Референсная запись голоса")
		fs.StringVar(&req.Language, "language", models.DefaultLanguage, "Язык текста")
	case BackendVibeVoice:
		req.Mode = models.ModeMultiSpeaker
		fs.StringVar(&speakers, "speaker", models.DefaultSpeakerName, "Говорящие через запятую")
		fs.StringVar(&req.Model, "model", cfg.VibeVoice.Model, "Модель или путь к ней")
	default:
		return req, fmt.Errorf("неизвестный бэкенд: %s", backend)
	}

	if err := fs.Parse(args); err != nil {
		return req, err
	}
	if fs.NArg() > 0 {
		return req, fmt.Errorf("лишние аргументы: %v", fs.Args())
	}

	if req.Mode == models.ModeMultiSpeaker {
		req.Speakers = models.ParseSpeakers(speakers)
	}

	return req, nil
}
