package model

import (
	"encoding/json"

	"github.com/deppfellow/shopbuilder/internal/validation"
)

// DefaultTheme is applied when a store is created without one.
const DefaultTheme = "default"

// CreateStorePayload is the body of POST /api/stores.
// Theme may be null; IsPublished may be omitted but not null.
type CreateStorePayload struct {
	Name        *string `json:"name" validate:"required,min=1"`
	Subdomain   *string `json:"subdomain"`
	Domain      *string `json:"domain"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	Theme       *string `json:"theme"`
	IsPublished *bool   `json:"is_published"`

	nulls validation.CustomValidationErrors
}

func (p *CreateStorePayload) UnmarshalJSON(data []byte) error {
	type plain CreateStorePayload
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	p.nulls = validation.NullFields(data, "is_published")
	return nil
}

func (p *CreateStorePayload) Validate() error {
	if len(p.nulls) > 0 {
		return p.nulls
	}
	return validation.Struct(p)
}

// ToRecord applies defaults. Call it only after Validate succeeded.
func (p *CreateStorePayload) ToRecord() Store {
	return Store{
		Name:        stringOr(p.Name, ""),
		Subdomain:   p.Subdomain,
		Domain:      p.Domain,
		Description: p.Description,
		LogoURL:     p.LogoURL,
		Theme:       stringOr(p.Theme, DefaultTheme),
		IsPublished: boolOr(p.IsPublished, false),
	}
}

// Store is a merchant's storefront configuration as stored.
type Store struct {
	Name        string  `json:"name" bson:"name"`
	Subdomain   *string `json:"subdomain" bson:"subdomain"`
	Domain      *string `json:"domain" bson:"domain"`
	Description *string `json:"description" bson:"description"`
	LogoURL     *string `json:"logo_url" bson:"logo_url"`
	Theme       string  `json:"theme" bson:"theme"`
	IsPublished bool    `json:"is_published" bson:"is_published"`
}
