package api

import (
	"context"

	"colophon/internal/texts"
)

// TextService exposes the journal's content pages over wire types.
type TextService struct {
	library *texts.Library
}

func NewTextService(library *texts.Library) *TextService {
	return &TextService{library: library}
}

// Titles lists every page title.
func (s *TextService) Titles(ctx context.Context) ([]string, error) {
	return s.library.Titles(ctx)
}

// Get returns one content page by title.
func (s *TextService) Get(ctx context.Context, title string) (TextView, error) {
	t, err := s.library.Fetch(ctx, title)
	if err != nil {
		return TextView{}, err
	}
	return fromText(t), nil
}

// Create adds a content page.
func (s *TextService) Create(ctx context.Context, req TextRequest) (TextView, error) {
	err := s.library.Add(ctx, texts.Text{Title: req.Title, Text: req.Text}, req.Editor)
	if err != nil {
		return TextView{}, err
	}
	return s.Get(ctx, req.Title)
}

// Update replaces a content page's body.
func (s *TextService) Update(ctx context.Context, title string, req TextRequest) (TextView, error) {
	if err := s.library.Update(ctx, title, req.Text, req.Editor); err != nil {
		return TextView{}, err
	}
	return s.Get(ctx, title)
}

// Delete removes a content page.
func (s *TextService) Delete(ctx context.Context, title string) error {
	return s.library.Delete(ctx, title)
}
