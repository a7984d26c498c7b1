//go:build unix && !linux

package result

import "golang.org/x/sys/unix"

func systemFDOps() fdOps {
	return fdOps{
		dup:   unix.Dup,
		dup2:  unix.Dup2,
		close: unix.Close,
	}
}
