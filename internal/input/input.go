// Package input reads the text a command operates on.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrNoInput is returned when there is nothing to read: no file was given
// and stdin is a terminal, or the source was empty.
var ErrNoInput = errors.New("no input provided")

// Read returns the contents of path, or of stdin when path is empty. An
// interactive stdin is not read, so the command fails fast instead of
// waiting for the user to type EOF.
func Read(path string, stdin *os.File) (string, error) {
	var data []byte
	var err error

	switch {
	case path != "":
		data, err = os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
	case stdin == nil || IsTerminal(stdin):
		return "", ErrNoInput
	default:
		data, err = io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
	}

	if len(data) == 0 {
		return "", ErrNoInput
	}
	return string(data), nil
}

// IsTerminal reports whether f is attached to a terminal, including Cygwin
// and MSYS ptys.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
