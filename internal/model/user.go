package model

import (
	"encoding/json"

	"github.com/deppfellow/shopbuilder/internal/validation"
)

// CreateUserPayload describes a user account. No route accepts it yet.
type CreateUserPayload struct {
	Name     *string `json:"name" validate:"required,min=1"`
	Email    *string `json:"email" validate:"required,min=1"`
	Address  *string `json:"address" validate:"required,min=1"`
	Age      *int    `json:"age" validate:"omitempty,gte=0,lte=120"`
	IsActive *bool   `json:"is_active"`

	nulls validation.CustomValidationErrors
}

func (p *CreateUserPayload) UnmarshalJSON(data []byte) error {
	type plain CreateUserPayload
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	p.nulls = validation.NullFields(data, "is_active")
	return nil
}

func (p *CreateUserPayload) Validate() error {
	if len(p.nulls) > 0 {
		return p.nulls
	}
	return validation.Struct(p)
}

func (p *CreateUserPayload) ToRecord() User {
	return User{
		Name:     stringOr(p.Name, ""),
		Email:    stringOr(p.Email, ""),
		Address:  stringOr(p.Address, ""),
		Age:      p.Age,
		IsActive: boolOr(p.IsActive, true),
	}
}

type User struct {
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Address  string `json:"address" bson:"address"`
	Age      *int   `json:"age" bson:"age"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}
