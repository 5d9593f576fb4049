package service

import (
	"context"

	"ai-pdfstudy-be/pkg/chunking"
	"ai-pdfstudy-be/pkg/document"

	"golang.org/x/sync/errgroup"
)

// generateGroups runs generate once per group with at most limit calls in
// flight and returns the results labeled in group order.
func generateGroups(ctx context.Context, groups []chunking.Group, limit int, generate func(ctx context.Context, group chunking.Group) (string, error)) ([]document.LabeledText, error) {
	if limit <= 0 {
		limit = 1
	}

	results := make([]document.LabeledText, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, group := range groups {
		g.Go(func() error {
			text, err := generate(gctx, group)
			if err != nil {
				return err
			}
			results[i] = document.LabeledText{Label: group.Label, Text: text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
