//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package compiler_errors

import "io"

func isTerminal(io.Writer) bool {
	return false
}
