//go:build linux

package result

import "golang.org/x/sys/unix"

// dup3 есть на всех архитектурах linux, в отличие от dup2
func systemFDOps() fdOps {
	return fdOps{
		dup: unix.Dup,
		dup2: func(oldfd, newfd int) error {
			return unix.Dup3(oldfd, newfd, 0)
		},
		close: unix.Close,
	}
}
