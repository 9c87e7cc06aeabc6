package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/1752rissy/envenciproject/internal/catalog"
)

const (
	fieldCategory  = "category"
	fieldTags      = "tags"
	fieldCreatedAt = "created_at"
)

// FirestoreRepository persists products in a Firestore collection. The
// created_at field is filled by the server timestamp sentinel on write.
type FirestoreRepository struct {
	collection *firestore.CollectionRef
}

func NewFirestore(client *firestore.Client, collection string) *FirestoreRepository {
	return &FirestoreRepository{collection: client.Collection(collection)}
}

func (r *FirestoreRepository) Create(ctx context.Context, product catalog.Product) (string, error) {
	ref, _, err := r.collection.Add(ctx, product)
	if err != nil {
		return "", fmt.Errorf("add product: %w", err)
	}
	return ref.ID, nil
}

// List returns products matching the filter, most recent first. The query
// iterator is consumed once and fully; results are materialized per call.
func (r *FirestoreRepository) List(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	query := r.collection.Query
	if filter.Category != "" {
		query = query.Where(fieldCategory, "==", filter.Category)
	}
	if filter.Tag != "" {
		query = query.Where(fieldTags, "array-contains", filter.Tag)
	}
	query = query.OrderBy(fieldCreatedAt, firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	list := make([]catalog.Product, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate products: %w", err)
		}

		var p catalog.Product
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		list = append(list, p)
	}

	return list, nil
}
