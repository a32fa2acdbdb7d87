//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import "os"

func withoutEcho(_ *os.File, _ func() (string, error)) (string, error) {
	return "", errEchoUnavailable
}
