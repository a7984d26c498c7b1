package models

import "strings"

// Режимы синтеза
const (
	ModeVoiceClone   = "voice_clone"   // один голос по референсной записи
	ModeMultiSpeaker = "multi_speaker" // несколько именованных голосов
)

// Форматы текста
const (
	FormatMonologue = "monologue"
	FormatDialogue  = "dialogue"
)

// Категории ошибок, которые видит вызывающий процесс
const (
	ErrorValidation     = "Validation failed"
	ErrorDependencies   = "Missing dependencies"
	ErrorSynthesis      = "Synthesis failed"
	ErrorTimeout        = "Synthesis timeout"
	ErrorOutputNotFound = "Generated audio file not found"
	ErrorCancelled      = "Operation cancelled by user"
	ErrorInvalidArgs    = "Invalid arguments"
	ErrorConfiguration  = "Configuration error"
	ErrorUnexpected     = "Unexpected error"
	MessageValidationOK = "Validation passed"
)

// Значения по умолчанию и ограничения
const (
	DefaultLanguage      = "ru"
	DefaultSpeakerName   = "Alice"
	AudioFileExtension   = ".wav"
	MaxTextLengthClone   = 5000  // XTTS
	MaxTextLengthSpeaker = 10000 // VibeVoice
)

// Kind классифицирует исход запуска
type Kind string

const (
	KindSuccess           Kind = "success"
	KindValidation        Kind = "validation"
	KindDependencyMissing Kind = "dependency_missing"
	KindSynthesis         Kind = "synthesis"
	KindTimeout           Kind = "timeout"
	KindCancelled         Kind = "cancelled"
	KindInvalidArgs       Kind = "invalid_arguments"
	KindConfiguration     Kind = "configuration"
	KindUnexpected        Kind = "unexpected"
)

// SynthesisRequest представляет один запрос на синтез речи
type SynthesisRequest struct {
	Mode         string   // voice_clone или multi_speaker
	Text         string   // исходный текст
	OutputPath   string   // итоговый .wav файл
	SpeakerVoice string   // референсная запись (voice_clone)
	Speakers     []string // ростер говорящих (multi_speaker)
	Language     string
	Model        string
	Format       string // monologue или dialogue
	ValidateOnly bool

	// Постобработка аудио
	Enhance     bool
	Normalize   bool
	TrimSilence bool
}

// MaxTextLength возвращает ограничение длины текста для режима запроса
func (r *SynthesisRequest) MaxTextLength() int {
	if r.Mode == ModeMultiSpeaker {
		return MaxTextLengthSpeaker
	}
	return MaxTextLengthClone
}

// IsDialogue проверяет, нужно ли размечать текст по говорящим
func (r *SynthesisRequest) IsDialogue() bool {
	return r.Format == FormatDialogue && len(r.Speakers) > 1
}

// ParseSpeakers разбирает список говорящих через запятую.
// Повторы имен без учета регистра отбрасываются, порядок сохраняется.
func ParseSpeakers(raw string) []string {
	var speakers []string
	seen := make(map[string]struct{})
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		speakers = append(speakers, s)
	}
	return speakers
}

// AudioMetadata содержит параметры итогового аудио
type AudioMetadata struct {
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	BitDepth        int     `json:"bit_depth"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Outcome представляет единственный JSON документ с результатом запуска
type Outcome struct {
	Kind Kind `json:"-"`

	Success bool `json:"success"`

	// Успех
	OutputFile    string         `json:"output_file,omitempty"`
	Message       string         `json:"message,omitempty"`
	Language      string         `json:"language,omitempty"`
	Speakers      []string       `json:"speakers,omitempty"`
	Format        string         `json:"format,omitempty"`
	Model         string         `json:"model,omitempty"`
	TextLength    int            `json:"text_length,omitempty"`
	FileSizeBytes *int64         `json:"file_size_bytes,omitempty"` // всегда задан при успехе синтеза
	SpeakerVoice  string         `json:"speaker_voice,omitempty"`
	Conditioned   *bool          `json:"conditioned,omitempty"`
	Metadata      *AudioMetadata `json:"metadata,omitempty"`

	// Ошибка
	Error      string `json:"error,omitempty"`
	Details    any    `json:"details,omitempty"` // строка или список строк
	ReturnCode *int   `json:"return_code,omitempty"`
	SearchPath string `json:"search_path,omitempty"`
	Pattern    string `json:"pattern,omitempty"`
}

// Failure создает исход с ошибкой
func Failure(kind Kind, category string, details any) Outcome {
	return Outcome{
		Kind:    kind,
		Success: false,
		Error:   category,
		Details: details,
	}
}

// ExitCode возвращает код завершения процесса для исхода
func (o Outcome) ExitCode() int {
	if o.Success {
		return 0
	}
	return 1
}
