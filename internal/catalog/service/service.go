package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/1752rissy/envenciproject/internal/catalog"
	"github.com/1752rissy/envenciproject/internal/catalog/imaging"
)

const (
	objectPrefix     = "products/"
	imageContentType = "image/png"
)

type Describer interface {
	Describe(ctx context.Context, imageBytes []byte) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, imageBytes []byte, description string) (string, []string)
}

type Repository interface {
	Create(ctx context.Context, product catalog.Product) (string, error)
	List(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) error
	SignedURL(objectPath string, ttl time.Duration) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, event catalog.ProductEvent) error
}

type Service struct {
	repo         Repository
	store        ObjectStore
	describer    Describer
	classifier   Classifier
	publisher    Publisher
	logger       *slog.Logger
	signedURLTTL time.Duration
	published    prometheus.Counter
	described    prometheus.Counter
}

func New(
	repo Repository,
	store ObjectStore,
	describer Describer,
	classifier Classifier,
	publisher Publisher,
	logger *slog.Logger,
	signedURLTTL time.Duration,
	published, described prometheus.Counter,
) *Service {
	return &Service{
		repo:         repo,
		store:        store,
		describer:    describer,
		classifier:   classifier,
		publisher:    publisher,
		logger:       logger,
		signedURLTTL: signedURLTTL,
		published:    published,
		described:    described,
	}
}

// GenerateDescription decodes the client image and asks the generative model
// for sales copy. The image is validated before any upstream call is made.
func (s *Service) GenerateDescription(ctx context.Context, imagePayload string) (string, error) {
	imageBytes, err := decodeToPNG(imagePayload)
	if err != nil {
		return "", err
	}

	description, err := s.describer.Describe(ctx, imageBytes)
	if err != nil {
		return "", fmt.Errorf("describe product: %w", err)
	}

	s.described.Inc()
	return description, nil
}

// Publish classifies the product, uploads its image, and persists the record.
// Classification is best-effort and can never fail the operation; the image
// upload and the document write can.
func (s *Service) Publish(ctx context.Context, imagePayload, description string, price float64) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", catalog.ErrMissingDescription
	}
	if price <= 0 {
		return "", catalog.ErrInvalidPrice
	}

	imageBytes, err := decodeToPNG(imagePayload)
	if err != nil {
		return "", err
	}

	category, tags := s.classifier.Classify(ctx, imageBytes, description)

	objectPath := objectPrefix + uuid.NewString() + ".png"
	if err := s.store.Upload(ctx, objectPath, imageBytes, imageContentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	id, err := s.repo.Create(ctx, catalog.Product{
		Description:   description,
		Price:         price,
		ImageFileName: objectPath,
		Category:      category,
		Tags:          tags,
		Status:        catalog.StatusActive,
	})
	if err != nil {
		// The uploaded object is now orphaned; there is no compensation,
		// only enough detail to reap it by hand.
		s.log(ctx).Error("product write failed after upload", "object", objectPath, "error", err)
		return "", fmt.Errorf("create product: %w", err)
	}

	if err := s.publisher.Publish(ctx, catalog.ProductEvent{
		EventType: catalog.EventPublished,
		ProductID: id,
		Category:  category,
		Price:     price,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		s.log(ctx).Error("publish product_published event failed",
			"product_id", id,
			"error", err,
		)
	}

	s.published.Inc()
	return id, nil
}

// List returns the filtered catalog, most recent first, with a fresh signed
// URL per item. An item whose URL cannot be signed right now is returned
// without one rather than dropped.
func (s *Service) List(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	// Stored tags are lower-cased by the classifier, so the filter must be
	// normalized the same way to ever match.
	filter.Tag = strings.ToLower(filter.Tag)

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	for i := range products {
		url, err := s.store.SignedURL(products[i].ImageFileName, s.signedURLTTL)
		if err != nil {
			s.log(ctx).Warn("signed url unavailable",
				"product_id", products[i].ID,
				"object", products[i].ImageFileName,
				"error", err,
			)
			continue
		}
		products[i].ImageURL = url
	}

	return products, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return catalog.LoggerFromContext(ctx, s.logger)
}

func decodeToPNG(payload string) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, catalog.ErrMissingImage
	}

	img, _, err := imaging.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrInvalidImage, err)
	}

	return imaging.EncodePNG(img)
}
