package services

import (
	"errors"
	"unicode"
)

var ErrWeakPassphrase = errors.New("passphrase must be at least 8 characters and mix letters with digits, spaces or symbols")

const minPassphraseRunes = 8

// ValidatePassphraseStrength accepts passphrases of at least eight characters
// that use letters plus at least one other character class.
func ValidatePassphraseStrength(passphrase string) error {
	if len([]rune(passphrase)) < minPassphraseRunes {
		return ErrWeakPassphrase
	}

	hasLetter := false
	hasOther := false
	for _, char := range passphrase {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char), unicode.IsSpace(char), unicode.IsPunct(char), unicode.IsSymbol(char):
			hasOther = true
		}
	}

	if hasLetter && hasOther {
		return nil
	}
	return ErrWeakPassphrase
}
