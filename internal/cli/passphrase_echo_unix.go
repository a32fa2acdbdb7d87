//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// withoutEcho clears ECHO on the terminal for the duration of read.
func withoutEcho(stdin *os.File, read func() (string, error)) (string, error) {
	fd := int(stdin.Fd())
	saved, err := unix.IoctlGetTermios(fd, termiosGetRequest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errEchoUnavailable, err)
	}

	silent := *saved
	silent.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, termiosSetRequest, &silent); err != nil {
		return "", fmt.Errorf("%w: %v", errEchoUnavailable, err)
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, termiosSetRequest, saved)
	}()

	return read()
}
