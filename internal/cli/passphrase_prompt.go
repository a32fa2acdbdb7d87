package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errEchoUnavailable = errors.New("terminal echo cannot be disabled")

// passphraseReader reads one secret per line. When input is a terminal the
// typed characters are not echoed.
type passphraseReader struct {
	file  *os.File
	lines *bufio.Reader
	out   io.Writer
}

func newPassphraseReader(in io.Reader, out io.Writer) *passphraseReader {
	file, _ := in.(*os.File)
	return &passphraseReader{file: file, lines: bufio.NewReader(in), out: out}
}

func (reader *passphraseReader) Read(label string) (string, error) {
	_, _ = fmt.Fprint(reader.out, label)
	if reader.file == nil {
		return reader.readLine()
	}

	line, err := withoutEcho(reader.file, reader.readLine)
	if errors.Is(err, errEchoUnavailable) {
		return reader.readLine()
	}
	_, _ = fmt.Fprintln(reader.out)
	return line, err
}

func (reader *passphraseReader) readLine() (string, error) {
	line, err := reader.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if err != nil && line == "" {
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
