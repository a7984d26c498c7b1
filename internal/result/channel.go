// Package result гарантирует, что родительский процесс получит ровно один
// JSON документ с исходом запуска, даже если сторонние библиотеки и
// дочерние программы пишут произвольный текст в stdout.
//
// Open дублирует дескриптор stdout (этот дубликат и есть канал результата),
// сохраняет еще одну копию для восстановления и перенаправляет stdout в
// stderr. Emit пишет JSON напрямую в дубликат. Close возвращает stdout на
// место. Если дублирование недоступно, канал работает в деградированном
// режиме и пишет JSON в обычный stdout.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrAlreadyEmitted возвращается при попытке отправить второй документ
var ErrAlreadyEmitted = errors.New("результат уже отправлен")

// fdOps абстрагирует системные вызовы для подмены в тестах
type fdOps struct {
	dup   func(fd int) (int, error)
	dup2  func(oldfd, newfd int) error
	close func(fd int) error
}

// Channel управляет каналом результата и диагностическим каналом
type Channel struct {
	logger  *zap.Logger
	primary *os.File // поток, который читает родительский процесс
	diag    *os.File // поток для логов и шума
	ops     fdOps

	mu         sync.Mutex
	result     io.Writer
	resultFile *os.File // дубликат primary; nil в деградированном режиме
	backupFD   int      // копия primary для восстановления; -1 если перенаправления не было
	emitted    bool
	closed     bool
}

// Open перенаправляет primary в diag и готовит канал результата.
// Ошибки дублирования не фатальны: канал переходит в деградированный режим.
func Open(logger *zap.Logger, primary, diag *os.File) *Channel {
	return open(logger, primary, diag, systemFDOps())
}

func open(logger *zap.Logger, primary, diag *os.File, ops fdOps) *Channel {
	c := &Channel{
		logger:   logger,
		primary:  primary,
		diag:     diag,
		ops:      ops,
		result:   primary,
		backupFD: -1,
	}

	primaryFD := int(primary.Fd())

	resultFD, err := ops.dup(primaryFD)
	if err != nil {
		logger.Warn("не удалось продублировать stdout, результат пойдет в обычный stdout",
			zap.Error(err))
		return c
	}
	c.resultFile = os.NewFile(uintptr(resultFD), "result")
	c.result = c.resultFile

	backupFD, err := ops.dup(primaryFD)
	if err != nil {
		logger.Warn("не удалось сохранить stdout, перенаправление отключено", zap.Error(err))
		return c
	}
	if err := ops.dup2(int(diag.Fd()), primaryFD); err != nil {
		logger.Warn("не удалось перенаправить stdout в диагностический канал", zap.Error(err))
		_ = ops.close(backupFD)
		return c
	}
	c.backupFD = backupFD

	logger.Debug("stdout перенаправлен в диагностический канал")
	return c
}

// Degraded сообщает, что JSON пойдет в неперенаправленный stdout
func (c *Channel) Degraded() bool {
	return c.resultFile == nil
}

// Emit отправляет единственный JSON документ в канал результата
func (c *Channel) Emit(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.emitted {
		return ErrAlreadyEmitted
	}
	if c.closed {
		return fmt.Errorf("канал результата закрыт")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}
	data = append(data, '\n')

	// Повторная отправка запрещена и после ошибки записи
	c.emitted = true
	if _, err := c.result.Write(data); err != nil {
		return fmt.Errorf("ошибка записи результата: %w", err)
	}
	return nil
}

// Close восстанавливает stdout и закрывает дубликаты. Повторный вызов ничего не делает.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var err error
	if c.backupFD >= 0 {
		if restoreErr := c.ops.dup2(c.backupFD, int(c.primary.Fd())); restoreErr != nil {
			err = multierr.Append(err, fmt.Errorf("ошибка восстановления stdout: %w", restoreErr))
		}
		if closeErr := c.ops.close(c.backupFD); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("ошибка закрытия копии stdout: %w", closeErr))
		}
		c.backupFD = -1
	}
	if c.resultFile != nil {
		err = multierr.Append(err, c.resultFile.Close())
	}
	return err
}
