package catalog

import (
	"errors"
	"time"
)

var (
	ErrMissingImage       = errors.New("image is required")
	ErrMissingDescription = errors.New("description is required")
	ErrInvalidImage       = errors.New("image is not a valid base64-encoded picture")
	ErrInvalidPrice       = errors.New("price must be a number greater than zero")
)

const (
	EventsQueue    = "catalog.events"
	EventPublished = "product_published"
)

// Product categories, in classification priority order.
const (
	CategoryElectronics = "Electronics"
	CategoryAccessories = "Accessories"
	CategoryFurniture   = "Furniture"
	CategoryClothing    = "Clothing"
	CategoryOther       = "Other"
)

const StatusActive = "active"

// CategoryKeyword binds a category to the keywords that select it. The
// classifier walks Taxonomy front to back and the first match wins, so the
// order of this table is part of the contract. Other carries no keywords and
// closes the table as the default.
type CategoryKeyword struct {
	Category string
	Keywords []string
}

var Taxonomy = []CategoryKeyword{
	{Category: CategoryElectronics, Keywords: []string{
		"phone", "telefono", "celular", "laptop", "computadora", "tablet",
		"camera", "camara", "television", "pantalla", "audifonos", "headphones",
		"bocina", "speaker", "consola", "electronic",
	}},
	{Category: CategoryAccessories, Keywords: []string{
		"watch", "reloj", "bag", "bolsa", "mochila", "backpack", "wallet",
		"cartera", "collar", "necklace", "pulsera", "bracelet", "anillo",
		"ring", "gafas", "lentes", "sunglasses", "cinturon", "belt",
	}},
	{Category: CategoryFurniture, Keywords: []string{
		"chair", "silla", "table", "mesa", "sofa", "sillon", "desk",
		"escritorio", "cama", "bed", "estante", "shelf", "ropero", "cajonera",
		"mueble", "furniture", "madera", "wooden",
	}},
	{Category: CategoryClothing, Keywords: []string{
		"shirt", "camisa", "playera", "blusa", "pantalon", "pants", "jeans",
		"vestido", "dress", "falda", "chamarra", "jacket", "sueter", "sweater",
		"zapatos", "shoes", "tenis", "ropa", "clothing",
	}},
	{Category: CategoryOther},
}

// Product is a persisted catalog entry. CreatedAt is assigned by the document
// store on write. ImageURL is never persisted; it is re-signed on every read
// because signed URLs expire.
type Product struct {
	ID            string    `json:"id" firestore:"-"`
	Description   string    `json:"description" firestore:"description"`
	Price         float64   `json:"price" firestore:"price"`
	ImageFileName string    `json:"image_file_name" firestore:"image_file_name"`
	Category      string    `json:"category" firestore:"category"`
	Tags          []string  `json:"tags" firestore:"tags"`
	CreatedAt     time.Time `json:"created_at" firestore:"created_at,serverTimestamp"`
	Status        string    `json:"status" firestore:"status"`
	ImageURL      string    `json:"image_url,omitempty" firestore:"-"`
}

// Filter narrows a catalog listing. Zero values mean no restriction.
type Filter struct {
	Category string
	Tag      string
}

type ProductEvent struct {
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
