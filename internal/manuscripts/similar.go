package manuscripts

import (
	"context"
	"sort"

	"colophon/internal/textutil"
)

// Screening thresholds. A fingerprint below minScreeningTokens carries too
// little signal to compare meaningfully.
const (
	similarityThreshold = 0.65
	minScreeningTokens  = 3
)

// SimilarTo returns other manuscripts whose title and abstract closely
// resemble the given manuscript's, most similar first. Editors use this to
// spot duplicate submissions and undisclosed resubmissions of rejected work.
func (a *Accessor) SimilarTo(ctx context.Context, id string) ([]Manuscript, error) {
	target, err := a.Record(ctx, id)
	if err != nil {
		return nil, err
	}
	fp := textutil.NewFingerprint(target.Title + " " + target.Abstract)
	if fp.TokenCount() < minScreeningTokens {
		return nil, nil
	}

	all, err := a.List(ctx)
	if err != nil {
		return nil, err
	}

	corpus := textutil.NewCorpus()
	prints := make(map[string]*textutil.Fingerprint, len(all))
	for _, m := range all {
		p := textutil.NewFingerprint(m.Title + " " + m.Abstract)
		prints[m.ID] = p
		corpus.Add(p)
	}
	idf := corpus.IDF()

	// When the corpus is too small to discriminate, every term is ubiquitous
	// and the weighted vector collapses; compare raw term counts instead.
	weighted := fp.WithIDF(idf)
	if weighted == nil {
		weighted = fp
		idf = nil
	}

	type scored struct {
		m     Manuscript
		score float64
	}
	matches := make([]scored, 0)
	for _, m := range all {
		if m.ID == id {
			continue
		}
		other := prints[m.ID].WithIDF(idf)
		if score := textutil.CosineSimilarity(weighted, other); score >= similarityThreshold {
			matches = append(matches, scored{m: m, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	out := make([]Manuscript, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.m)
	}
	return out, nil
}
