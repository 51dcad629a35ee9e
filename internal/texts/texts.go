// Package texts stores the journal's standing content pages, such as the
// mission statement or submission guidelines. Pages are keyed by title.
package texts

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"colophon/internal/services"
	"colophon/internal/store"
)

const collection = "texts"

// Text is a single content page. Editor records who last touched it.
type Text struct {
	Title    string    `json:"title"`
	Text     string    `json:"text"`
	Editor   string    `json:"editor,omitempty"`
	LastEdit time.Time `json:"last_edit"`
}

// Library provides CRUD over content pages.
type Library struct {
	store *store.Store
}

func NewLibrary(s *store.Store) *Library {
	return &Library{store: s}
}

// Fetch returns the page with the given title.
func (l *Library) Fetch(ctx context.Context, title string) (Text, error) {
	id, err := l.idForTitle(ctx, title)
	if err != nil {
		return Text{}, err
	}
	raw, err := l.store.Get(ctx, collection, id)
	if err != nil {
		return Text{}, err
	}
	var t Text
	if err := json.Unmarshal(raw, &t); err != nil {
		return Text{}, services.Wrap(nil, "texts", "fetch", "corrupt text record", err)
	}
	return t, nil
}

// Add creates a new page. The title must not already exist.
func (l *Library) Add(ctx context.Context, t Text, editor string) error {
	if t.Title == "" {
		return services.Wrap(services.ErrValidation, "texts", "add", "title is required", nil)
	}
	if _, err := l.idForTitle(ctx, t.Title); err == nil {
		return services.Wrap(services.ErrConflict, "texts", "add",
			fmt.Sprintf("text %q already exists", t.Title), nil)
	}
	t.Editor = editor
	t.LastEdit = time.Now().UTC()
	_, err := l.store.Add(ctx, collection, t)
	return err
}

// Update replaces the body of an existing page and records the editor.
func (l *Library) Update(ctx context.Context, title, body, editor string) error {
	id, err := l.idForTitle(ctx, title)
	if err != nil {
		return err
	}
	return l.store.Put(ctx, collection, id, Text{
		Title:    title,
		Text:     body,
		Editor:   editor,
		LastEdit: time.Now().UTC(),
	})
}

// Delete removes the page with the given title.
func (l *Library) Delete(ctx context.Context, title string) error {
	id, err := l.idForTitle(ctx, title)
	if err != nil {
		return err
	}
	removed, err := l.store.Delete(ctx, collection, id)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "texts", "delete",
			fmt.Sprintf("no text titled %q", title), nil)
	}
	return nil
}

// Titles lists every page title, sorted.
func (l *Library) Titles(ctx context.Context) ([]string, error) {
	all, err := l.store.All(ctx, collection)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(all))
	for _, raw := range all {
		var t Text
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, services.Wrap(nil, "texts", "list", "corrupt text record", err)
		}
		titles = append(titles, t.Title)
	}
	sort.Strings(titles)
	return titles, nil
}

func (l *Library) idForTitle(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", services.Wrap(services.ErrValidation, "texts", "fetch", "title is required", nil)
	}
	matches, err := l.store.FindByField(ctx, collection, "title", title)
	if err != nil {
		return "", err
	}
	for id := range matches {
		return id, nil
	}
	return "", services.Wrap(services.ErrNotFound, "texts", "fetch",
		fmt.Sprintf("no text titled %q", title), nil)
}
