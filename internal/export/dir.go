package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zappabad/stocksurge/internal/game"
)

// WriteDir writes every export of st into dir as <kind>.csv, creating dir
// when needed.
func WriteDir(dir string, st game.State) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, kind := range Kinds {
		if err := WriteFile(filepath.Join(dir, kind.FileName()), func(w io.Writer) error {
			return Write(w, kind, st)
		}); err != nil {
			return fmt.Errorf("export %s: %w", kind, err)
		}
	}
	return nil
}

// WriteFile creates path and hands it to write. The file is closed on every
// path; a close error is reported when write succeeded.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
