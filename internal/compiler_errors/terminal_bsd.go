//go:build darwin || freebsd || netbsd || openbsd

package compiler_errors

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TIOCGETA
