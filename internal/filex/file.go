// Package filex inspects local files before they are uploaded.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

var ErrNotRegularFile = errors.New("not a regular file")

// Info describes a local file as the upload endpoint sees it.
type Info struct {
	Name        string
	Size        int64
	ContentType string
}

// Describe stats path and sniffs its content type.
func Describe(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !st.Mode().IsRegular() {
		return Info{}, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("detect type %s: %w", path, err)
	}

	return Info{Name: filepath.Base(path), Size: st.Size(), ContentType: mt.String()}, nil
}

// Open describes path and opens it for reading. The caller closes the file.
func Open(path string) (*os.File, Info, error) {
	info, err := Describe(path)
	if err != nil {
		return nil, Info{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	return f, info, nil
}
