package security

import (
	"crypto/rand"
	"errors"
	"io"
)

const (
	tokenIDAlphabet = "abcdefghijkmnopqrstuvwxyz23456789"
	tokenIDLength   = 24
)

var (
	ErrInvalidLength = errors.New("length must be non-negative")
	ErrEmptyAlphabet = errors.New("alphabet must not be empty")
	ErrLargeAlphabet = errors.New("alphabet must not exceed 256 characters")
)

// NewTokenID returns a random identifier for the jti claim of issued tokens.
func NewTokenID() (string, error) {
	return RandomString(tokenIDLength, tokenIDAlphabet)
}

// RandomString draws length characters uniformly from alphabet using
// crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	return randomStringFrom(rand.Reader, length, alphabet)
}

func randomStringFrom(source io.Reader, length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", ErrInvalidLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", ErrEmptyAlphabet
	case len(alphabet) > 256:
		return "", ErrLargeAlphabet
	}

	// Bytes at or above limit are rejected so every character is equally likely.
	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(source, buffer); err != nil {
			return "", err
		}
		for _, value := range buffer {
			if int(value) >= limit {
				continue
			}
			out = append(out, alphabet[int(value)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
