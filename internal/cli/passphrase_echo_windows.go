//go:build windows

package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

func withoutEcho(stdin *os.File, read func() (string, error)) (string, error) {
	handle := windows.Handle(stdin.Fd())
	var saved uint32
	if err := windows.GetConsoleMode(handle, &saved); err != nil {
		return "", fmt.Errorf("%w: %v", errEchoUnavailable, err)
	}
	if err := windows.SetConsoleMode(handle, saved&^windows.ENABLE_ECHO_INPUT); err != nil {
		return "", fmt.Errorf("%w: %v", errEchoUnavailable, err)
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, saved)
	}()

	return read()
}
