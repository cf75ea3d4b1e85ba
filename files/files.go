package files

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Read returns the whole content of the file at path, or of stdin when path
// is "-".
func Read(path string) (string, error) {
	var src io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer file.Close()
		src = file
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, bufio.NewReader(src)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write replaces the file at path with the content of buffer, or copies it
// to stdout when path is "-" or empty.
func Write(path string, buffer io.Reader) error {
	if path == "" || path == "-" {
		_, err := io.Copy(os.Stdout, buffer)
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, buffer); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
