package tts

import "context"

// Request содержит параметры одного синтеза
type Request struct {
	Text         string   // нормализованный текст или сценарий диалога
	SpeakerVoice string   // референсная запись для клонирования
	Speakers     []string // ростер говорящих
	Language     string
	Model        string
}

// Synthesizer представляет интерфейс для бэкенда синтеза речи
type Synthesizer interface {
	// Name возвращает имя бэкенда для логов и метрик
	Name() string
	// CheckDependencies возвращает имена недоступных зависимостей
	CheckDependencies() []string
	// Synthesize синтезирует речь во временный файл и возвращает путь к нему.
	// Итоговый файл бэкенд не трогает.
	Synthesize(ctx context.Context, req Request) (string, error)
}
