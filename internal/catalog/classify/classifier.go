// Package classify assigns a category and tag set to a product by merging a
// generative-model suggestion with vision label detection. Classification is
// best-effort enrichment: any failure degrades to the default category and
// never reaches the publish path.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/1752rissy/envenciproject/internal/catalog"
	"github.com/1752rissy/envenciproject/internal/catalog/ai"
)

type Suggester interface {
	Suggest(ctx context.Context, description string) (ai.Suggestion, error)
}

type Labeler interface {
	DetectLabels(ctx context.Context, imageBytes []byte) ([]ai.Label, error)
}

type Classifier struct {
	suggester Suggester
	labeler   Labeler
	logger    *slog.Logger
	fallbacks prometheus.Counter
}

func New(suggester Suggester, labeler Labeler, logger *slog.Logger, fallbacks prometheus.Counter) *Classifier {
	return &Classifier{
		suggester: suggester,
		labeler:   labeler,
		logger:    logger,
		fallbacks: fallbacks,
	}
}

// Classify returns the final category and de-duplicated, lower-cased tag set
// for a product. If the structured suggestion cannot be obtained or parsed,
// the result is exactly (Other, nil) regardless of the vision outcome.
func (c *Classifier) Classify(ctx context.Context, imageBytes []byte, description string) (string, []string) {
	logger := catalog.LoggerFromContext(ctx, c.logger)

	suggestion, err := c.suggester.Suggest(ctx, description)
	if err != nil {
		logger.Error("classification suggestion failed", "error", err)
		c.fallbacks.Inc()
		return catalog.CategoryOther, nil
	}

	var topVisualTag string
	labels, err := c.labeler.DetectLabels(ctx, imageBytes)
	if err != nil {
		// Visual tags are optional; the text suggestion still stands.
		logger.Warn("label detection failed", "error", err)
		labels = nil
	}

	var best float32 = -1
	for _, l := range labels {
		if l.Score > best {
			best = l.Score
			topVisualTag = strings.ToLower(l.Description)
		}
	}

	tags := mergeTags(suggestion.Tags, labels)
	category := resolveCategory(description, topVisualTag)

	return category, tags
}

// mergeTags unions the suggested and visual tags, lower-cased, keeping first
// occurrence order. The union is uncapped.
func mergeTags(suggested []string, labels []ai.Label) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0, len(suggested)+len(labels))

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, t := range suggested {
		add(t)
	}
	for _, l := range labels {
		add(l.Description)
	}

	return tags
}

// resolveCategory walks the taxonomy in order and picks the first category
// with a keyword that is a case-insensitive substring of the description or
// an exact match of the top visual tag. The closing Other row has no keywords
// and is the default.
func resolveCategory(description, topVisualTag string) string {
	desc := strings.ToLower(description)

	for _, entry := range catalog.Taxonomy {
		for _, keyword := range entry.Keywords {
			if strings.Contains(desc, keyword) || keyword == topVisualTag {
				return entry.Category
			}
		}
	}

	return catalog.CategoryOther
}
