package classify

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/1752rissy/envenciproject/internal/catalog"
	"github.com/1752rissy/envenciproject/internal/catalog/ai"
)

type stubSuggester struct {
	suggestion ai.Suggestion
	err        error
}

func (s *stubSuggester) Suggest(context.Context, string) (ai.Suggestion, error) {
	return s.suggestion, s.err
}

type stubLabeler struct {
	labels []ai.Label
	err    error
}

func (s *stubLabeler) DetectLabels(context.Context, []byte) ([]ai.Label, error) {
	return s.labels, s.err
}

func newTestClassifier(suggester Suggester, labeler Labeler) *Classifier {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "t_fallbacks", Help: "t"})
	return New(suggester, labeler, logger, counter)
}

func TestClassify(t *testing.T) {
	img := []byte("png bytes")

	tests := []struct {
		name         string
		suggester    *stubSuggester
		labeler      *stubLabeler
		description  string
		wantCategory string
		wantTags     []string
	}{
		{
			name:         "suggestion failure falls back regardless of vision",
			suggester:    &stubSuggester{err: errors.New("quota exceeded")},
			labeler:      &stubLabeler{labels: []ai.Label{{Description: "Chair", Score: 0.95}}},
			description:  "Silla de madera",
			wantCategory: catalog.CategoryOther,
			wantTags:     nil,
		},
		{
			name: "earlier table row wins on description keywords",
			suggester: &stubSuggester{
				suggestion: ai.Suggestion{Category: catalog.CategoryClothing, Tags: []string{"vintage"}},
			},
			labeler:      &stubLabeler{},
			description:  "Camisa estampada con sillas", // silla (Furniture) precedes camisa (Clothing)
			wantCategory: catalog.CategoryFurniture,
			wantTags:     []string{"vintage"},
		},
		{
			name: "top visual tag exact match selects category",
			suggester: &stubSuggester{
				suggestion: ai.Suggestion{Category: catalog.CategoryOther, Tags: []string{"vintage"}},
			},
			labeler: &stubLabeler{labels: []ai.Label{
				{Description: "Furniture", Score: 0.6},
				{Description: "Chair", Score: 0.9},
			}},
			description:  "Asiento antiguo en buen estado",
			wantCategory: catalog.CategoryFurniture,
			wantTags:     []string{"vintage", "furniture", "chair"},
		},
		{
			name: "non-top label keyword does not count",
			suggester: &stubSuggester{
				suggestion: ai.Suggestion{Category: catalog.CategoryOther},
			},
			labeler: &stubLabeler{labels: []ai.Label{
				{Description: "Dog", Score: 0.9},
				{Description: "Chair", Score: 0.5},
			}},
			description:  "Algo indescriptible",
			wantCategory: catalog.CategoryOther,
			wantTags:     []string{"dog", "chair"},
		},
		{
			name: "tags are lower-cased and de-duplicated",
			suggester: &stubSuggester{
				suggestion: ai.Suggestion{Category: catalog.CategoryElectronics, Tags: []string{"Laptop", "gamer", " "}},
			},
			labeler: &stubLabeler{labels: []ai.Label{
				{Description: "LAPTOP", Score: 0.8},
				{Description: "Computer", Score: 0.7},
			}},
			description:  "Laptop gamer usada",
			wantCategory: catalog.CategoryElectronics,
			wantTags:     []string{"laptop", "gamer", "computer"},
		},
		{
			name: "vision failure keeps the text suggestion",
			suggester: &stubSuggester{
				suggestion: ai.Suggestion{Category: catalog.CategoryClothing, Tags: []string{"algodon"}},
			},
			labeler:      &stubLabeler{err: errors.New("vision unavailable")},
			description:  "Camisa de algodón talla M",
			wantCategory: catalog.CategoryClothing,
			wantTags:     []string{"algodon"},
		},
		{
			name: "no match anywhere defaults to Other",
			suggester: &stubSuggester{
				suggestion: ai.Suggestion{Category: catalog.CategoryElectronics},
			},
			labeler:      &stubLabeler{},
			description:  "Cosa rara sin nombre",
			wantCategory: catalog.CategoryOther,
			wantTags:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(tt.suggester, tt.labeler)

			category, tags := c.Classify(context.Background(), img, tt.description)

			if category != tt.wantCategory {
				t.Fatalf("want category %q, got %q", tt.wantCategory, category)
			}
			if tt.wantTags == nil {
				if tags != nil {
					t.Fatalf("want nil tags, got %v", tags)
				}
				return
			}
			if !reflect.DeepEqual(tags, tt.wantTags) {
				t.Fatalf("want tags %v, got %v", tt.wantTags, tags)
			}
		})
	}
}

func TestTaxonomyOrder(t *testing.T) {
	want := []string{
		catalog.CategoryElectronics,
		catalog.CategoryAccessories,
		catalog.CategoryFurniture,
		catalog.CategoryClothing,
		catalog.CategoryOther,
	}

	if len(catalog.Taxonomy) != len(want) {
		t.Fatalf("want %d taxonomy rows, got %d", len(want), len(catalog.Taxonomy))
	}
	for i, entry := range catalog.Taxonomy {
		if entry.Category != want[i] {
			t.Fatalf("row %d: want %q, got %q", i, want[i], entry.Category)
		}
	}
	if len(catalog.Taxonomy[len(catalog.Taxonomy)-1].Keywords) != 0 {
		t.Fatalf("Other must carry no keywords")
	}
}
