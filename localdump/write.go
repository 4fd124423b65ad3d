package localdump

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// ErrFilenameTooLong means a page's filename is longer than one path segment may be.
var ErrFilenameTooLong = errors.New("filename too long")

// Writer stores page snapshots under Root, one directory per source.
type Writer struct {
	Root string
}

// EnsureSourceDirs creates <root>/<source>/data if it's missing.  Safe to call every run.
func (w *Writer) EnsureSourceDirs(source string) error {
	// Does local repo exist?
	stat, err := os.Stat(w.Root)
	if err != nil {
		return fmt.Errorf("localdump: cannot stat '%s': %w", w.Root, err)
	}

	if !stat.IsDir() {
		// path is not a directory.  this is bad, we should bail
		return fmt.Errorf("localdump: local store path not a directory: '%s'", w.Root)
	}

	directory := filepath.Join(w.Root, source, dataDir)
	if err := os.MkdirAll(directory, dirMode); err != nil {
		return fmt.Errorf("localdump: couldn't create directory %s: %w", directory, err)
	}

	return nil
}

// WritePage writes content byte for byte to <root>/<source>/data/<filename>, replacing any earlier
// snapshot, and returns the path relative to the root.
func (w *Writer) WritePage(source string, filename string, content string) (RelativePath, error) {
	rel := RelativePath(path.Join(source, dataDir, filename))

	if err := w.write(rel, content); err != nil {
		return "", err
	}

	return rel, nil
}

// WriteMarkdown stores a rendered page and returns its relative path.
func (w *Writer) WriteMarkdown(contents LocalMarkdown) (RelativePath, error) {
	if err := w.write(contents.RelativePath, contents.Content); err != nil {
		return "", err
	}

	return contents.RelativePath, nil
}

// ReadPage returns the stored snapshot of filename.
func (w *Writer) ReadPage(source string, filename string) (string, error) {
	abs := filepath.Join(w.Root, source, dataDir, filename)
	b, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("localdump: couldn't read file %s: %w", abs, err)
	}
	return string(b), nil
}

func (w *Writer) write(rel RelativePath, content string) error {
	abs := filepath.Join(w.Root, filepath.FromSlash(string(rel)))
	directory := filepath.Dir(abs)

	if name := filepath.Base(abs); len(name) > maxFilenameBytes {
		return fmt.Errorf("localdump: %w: %d bytes in %s", ErrFilenameTooLong, len(name), rel)
	}

	if err := os.MkdirAll(directory, dirMode); err != nil {
		return fmt.Errorf("localdump: couldn't create directory %s: %w", directory, err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, snapshotMode)
	if err != nil {
		return fmt.Errorf("localdump: couldn't create file %s: %w", abs, err)
	}

	if _, err = f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("localdump: couldn't write to file %s: %w", abs, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("localdump: couldn't close file %s: %w", abs, err)
	}

	return nil
}
