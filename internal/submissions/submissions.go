// Package submissions handles manuscript document intake: validating and
// storing uploaded files, extracting their text, and notifying the editor
// that new work has arrived.
package submissions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"colophon/internal/manuscripts"
	"colophon/internal/services"
)

// allowedExtensions are the document formats a submission may arrive in.
var allowedExtensions = []string{"txt", "md", "html", "docx"}

// ValidExtensions returns the accepted upload formats.
func ValidExtensions() []string {
	out := make([]string, len(allowedExtensions))
	copy(out, allowedExtensions)
	return out
}

// FileExt returns the lowercased extension of filename without the dot, or
// empty when the name has none.
func FileExt(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsValidFile reports whether the filename carries an accepted extension.
func IsValidFile(filename string) bool {
	ext := FileExt(filename)
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Notifier is the slice of the notification service the intake needs.
type Notifier interface {
	NotifyEditor(ctx context.Context, m manuscripts.Manuscript) error
}

// Intake stores submission documents on disk, one directory per manuscript,
// with the original file renamed to <id>.<ext>.
type Intake struct {
	dir      string
	accessor *manuscripts.Accessor
	notifier Notifier
	logger   *slog.Logger
}

func NewIntake(dir string, accessor *manuscripts.Accessor, notifier Notifier, logger *slog.Logger) *Intake {
	return &Intake{
		dir:      dir,
		accessor: accessor,
		notifier: notifier,
		logger:   logger.With("component", "submissions"),
	}
}

// StoreFile saves an uploaded document for the given manuscript, extracts
// its text into the record where the format allows, and notifies the editor.
// Plain-text formats (txt, md, html) are read directly; docx documents are
// kept as the original file only, with text extraction deferred to the
// production pipeline.
func (i *Intake) StoreFile(ctx context.Context, manuscriptID, filename string, r io.Reader) error {
	m, err := i.accessor.Record(ctx, manuscriptID)
	if err != nil {
		return err
	}
	if !IsValidFile(filename) {
		return services.Wrap(services.ErrValidation, "submissions", "store",
			fmt.Sprintf("valid file types are: %s", strings.Join(allowedExtensions, ", ")), nil)
	}

	dir, err := i.submissionDir(manuscriptID)
	if err != nil {
		return err
	}
	ext := FileExt(filename)
	path := filepath.Join(dir, manuscriptID+"."+ext)
	f, err := os.Create(path)
	if err != nil {
		return services.Wrap(nil, "submissions", "store", "writing submission file", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return services.Wrap(nil, "submissions", "store", "writing submission file", err)
	}
	if err := f.Close(); err != nil {
		return services.Wrap(nil, "submissions", "store", "writing submission file", err)
	}

	if ext != "docx" {
		text, err := os.ReadFile(path)
		if err != nil {
			return services.Wrap(nil, "submissions", "store", "reading submission file", err)
		}
		if err := i.accessor.SetText(ctx, manuscriptID, string(text)); err != nil {
			return err
		}
	}

	i.logger.Info("submission stored", "manuscript", manuscriptID, "file", filepath.Base(path))
	i.notifyEditorAsync(m)
	return nil
}

// SaveTextAsFile writes the manuscript's stored text out as a markdown file
// in its submission directory, for manuscripts submitted as plain text with
// no upload. Returns the written path.
func (i *Intake) SaveTextAsFile(ctx context.Context, manuscriptID string) (string, error) {
	m, err := i.accessor.Record(ctx, manuscriptID)
	if err != nil {
		return "", err
	}
	dir, err := i.submissionDir(manuscriptID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, manuscriptID+".md")
	if err := os.WriteFile(path, []byte(m.Text), 0o644); err != nil {
		return "", services.Wrap(nil, "submissions", "save-text", "writing markdown file", err)
	}
	return path, nil
}

// OriginalFile returns the path of the stored submission document, trying
// each accepted extension. Returns ErrNotFound when no file was uploaded.
func (i *Intake) OriginalFile(manuscriptID string) (string, error) {
	dir := filepath.Join(i.dir, manuscriptID)
	for _, ext := range allowedExtensions {
		path := filepath.Join(dir, manuscriptID+"."+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(nil, "submissions", "original-file", "checking submission file", err)
		}
	}
	return "", services.Wrap(services.ErrNotFound, "submissions", "original-file",
		fmt.Sprintf("no submission file for manuscript %s", manuscriptID), nil)
}

func (i *Intake) submissionDir(manuscriptID string) (string, error) {
	dir := filepath.Join(i.dir, manuscriptID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(nil, "submissions", "store", "creating submission directory", err)
	}
	return dir, nil
}

func (i *Intake) notifyEditorAsync(m manuscripts.Manuscript) {
	if i.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := i.notifier.NotifyEditor(ctx, m); err != nil {
			i.logger.Warn("editor notification failed", "manuscript", m.ID, "error", err)
		}
	}()
}

// InferTitle derives a presentable manuscript title from an uploaded
// filename, for submissions that arrive without one.
func InferTitle(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Manuscript"
	}
	return cases.Title(language.Und).String(title)
}
