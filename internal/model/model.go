// Package model holds the entity schemas. A payload is what clients send;
// ToRecord applies defaults and yields what gets stored.
//
// Payload fields are pointers so an absent field can be told apart from a
// zero value. Records are what the document store sees.
package model

// Collection names. Each entity lives in the collection named after it.
const (
	StoreCollection   = "store"
	ProductCollection = "product"
	UserCollection    = "user"
)

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
