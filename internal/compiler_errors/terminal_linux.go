package compiler_errors

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TCGETS
