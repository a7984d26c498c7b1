package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// MoveFile переносит файл без изменений. Если rename невозможен (другое
// устройство), файл копируется и исходник удаляется.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return multierr.Append(fmt.Errorf("ошибка копирования %s в %s: %w", src, dst, err), RemoveFiles(dst))
	}
	if err := os.Remove(src); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления %s: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	_, err = io.Copy(out, in)
	return err
}

// RemoveFiles удаляет файлы, пропуская уже отсутствующие, и собирает все ошибки
func RemoveFiles(paths ...string) error {
	var err error
	for _, path := range paths {
		if path == "" {
			continue
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = multierr.Append(err, rmErr)
		}
	}
	return err
}
