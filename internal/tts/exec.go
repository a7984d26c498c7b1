package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// waitDelay ограничивает ожидание потоков убитого по таймауту процесса
const waitDelay = 5 * time.Second

// parseCommand разбирает строку команды в argv
func parseCommand(command string) ([]string, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора команды %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("пустая команда синтеза")
	}
	return args, nil
}

// runCommand запускает программу синтеза и возвращает захваченный stderr.
// stdout программы уходит в stdout процесса, то есть в диагностический канал
// после перенаправления.
func runCommand(ctx context.Context, logger *zap.Logger, dir string, argv []string) (string, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)

	logger.Debug("запуск программы синтеза",
		zap.Strings("argv", argv),
		zap.String("dir", dir))

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)

	if err == nil {
		logger.Info("программа синтеза завершилась", zap.Duration("elapsed", elapsed))
		return stderr.String(), nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.Error("синтез прерван по таймауту",
			zap.String("program", argv[0]),
			zap.Duration("elapsed", elapsed))
		return stderr.String(), ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		logger.Warn("синтез отменен", zap.String("program", argv[0]))
		return stderr.String(), ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Error("ошибка выполнения программы синтеза",
			zap.String("program", argv[0]),
			zap.Int("exit_code", exitErr.ExitCode()),
			zap.String("stderr", stderr.String()))
		return stderr.String(), &ExitError{
			Program:  filepath.Base(argv[0]),
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
		}
	}

	return stderr.String(), fmt.Errorf("ошибка запуска %s: %w", argv[0], err)
}

// lookupProgram проверяет, что программа доступна
func lookupProgram(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// lookupCommand проверяет, что программа из строки команды доступна
func lookupCommand(command string) bool {
	argv, err := parseCommand(command)
	return err == nil && lookupProgram(argv[0])
}

// cleanupFile удаляет временный файл
func cleanupFile(logger *zap.Logger, filename string) {
	if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
		logger.Warn("ошибка удаления временного файла",
			zap.String("filename", filename),
			zap.Error(err))
	}
}
