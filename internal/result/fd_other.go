//go:build !unix

package result

import "errors"

var errNoDup = errors.New("дублирование дескрипторов не поддерживается")

func systemFDOps() fdOps {
	return fdOps{
		dup:   func(int) (int, error) { return -1, errNoDup },
		dup2:  func(int, int) error { return errNoDup },
		close: func(int) error { return nil },
	}
}
