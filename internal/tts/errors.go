package tts

import (
	"errors"
	"fmt"
)

// ErrTimeout возвращается, когда синтез не уложился в отведенное время
var ErrTimeout = errors.New("превышено время синтеза")

// ExitError описывает завершение внешней программы с ненулевым кодом
type ExitError struct {
	Program  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s завершился с кодом %d", e.Program, e.ExitCode)
}

// OutputNotFoundError описывает отсутствие сгенерированного файла
type OutputNotFoundError struct {
	SearchPath string
	Pattern    string
}

func (e *OutputNotFoundError) Error() string {
	return fmt.Sprintf("сгенерированный файл %s не найден в %s", e.Pattern, e.SearchPath)
}
