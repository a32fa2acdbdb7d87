package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPassphraseReaderReadsLines(t *testing.T) {
	var prompts bytes.Buffer
	reader := newPassphraseReader(strings.NewReader("first\r\nsecond"), &prompts)

	first, err := reader.Read("One: ")
	if err != nil || first != "first" {
		t.Fatalf("expected first line, got %q (%v)", first, err)
	}
	second, err := reader.Read("Two: ")
	if err != nil || second != "second" {
		t.Fatalf("expected unterminated last line, got %q (%v)", second, err)
	}
	if _, err := reader.Read("Three: "); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF at end of input, got %v", err)
	}
	if prompts.String() != "One: Two: Three: " {
		t.Fatalf("unexpected prompts %q", prompts.String())
	}
}
