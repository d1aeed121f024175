package model

import (
	"encoding/json"

	"github.com/deppfellow/shopbuilder/internal/validation"
)

// DefaultCurrency is applied when a product is created without a currency.
const DefaultCurrency = "USD"

// CreateProductPayload is the body of POST /api/products.
//
// StoreID is kept as text here; the product service parses it before any
// storage access. Currency, InStock and ImageURLs may be omitted to take
// their defaults but never sent as null, nor may an image URL.
type CreateProductPayload struct {
	StoreID        *string   `json:"store_id" validate:"required,min=1"`
	Title          *string   `json:"title" validate:"required,min=1"`
	Description    *string   `json:"description"`
	Price          *float64  `json:"price" validate:"required,gte=0"`
	CompareAtPrice *float64  `json:"compare_at_price" validate:"omitempty,gte=0"`
	Currency       *string   `json:"currency"`
	Category       *string   `json:"category"`
	InStock        *bool     `json:"in_stock"`
	ImageURLs      []*string `json:"image_urls" validate:"omitempty,dive,required"`

	nulls validation.CustomValidationErrors
}

var productNonNullable = []string{"currency", "in_stock", "image_urls"}

func (p *CreateProductPayload) UnmarshalJSON(data []byte) error {
	type plain CreateProductPayload
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	p.nulls = validation.NullFields(data, productNonNullable...)
	return nil
}

func (p *CreateProductPayload) Validate() error {
	if len(p.nulls) > 0 {
		return p.nulls
	}
	return validation.Struct(p)
}

// ToRecord applies defaults. Call it only after Validate succeeded.
func (p *CreateProductPayload) ToRecord() Product {
	imageURLs := make([]string, 0, len(p.ImageURLs))
	for _, url := range p.ImageURLs {
		imageURLs = append(imageURLs, stringOr(url, ""))
	}

	var price float64
	if p.Price != nil {
		price = *p.Price
	}

	return Product{
		StoreID:        stringOr(p.StoreID, ""),
		Title:          stringOr(p.Title, ""),
		Description:    p.Description,
		Price:          price,
		CompareAtPrice: p.CompareAtPrice,
		Currency:       stringOr(p.Currency, DefaultCurrency),
		Category:       p.Category,
		InStock:        boolOr(p.InStock, true),
		ImageURLs:      imageURLs,
	}
}

// Product is a sellable item belonging to exactly one store.
// StoreID holds the owning store's identifier text.
type Product struct {
	StoreID        string   `json:"store_id" bson:"store_id"`
	Title          string   `json:"title" bson:"title"`
	Description    *string  `json:"description" bson:"description"`
	Price          float64  `json:"price" bson:"price"`
	CompareAtPrice *float64 `json:"compare_at_price" bson:"compare_at_price"`
	Currency       string   `json:"currency" bson:"currency"`
	Category       *string  `json:"category" bson:"category"`
	InStock        bool     `json:"in_stock" bson:"in_stock"`
	ImageURLs      []string `json:"image_urls" bson:"image_urls"`
}
