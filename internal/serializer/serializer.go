// Package serializer turns raw stored documents into JSON-safe maps.
//
// The primary key "_id" is renamed to "id" and every ObjectID, at any
// depth, becomes its 24-character hex text. Stored timestamps become
// time.Time so they encode as RFC 3339.
package serializer

import (
	"github.com/deppfellow/shopbuilder/internal/identifier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document serializes one raw document. Nil in, nil out.
func Document(raw bson.M) map[string]any {
	if raw == nil {
		return nil
	}

	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if key == "_id" {
			key = "id"
		}
		out[key] = value2JSON(value)
	}

	return out
}

// Documents serializes each raw document. The result is never nil, so an
// empty collection encodes as [] rather than null.
func Documents(raws []bson.M) []map[string]any {
	out := make([]map[string]any, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Document(raw))
	}
	return out
}

func value2JSON(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return identifier.String(v)
	case primitive.DateTime:
		return v.Time().UTC()
	case bson.M:
		return nested(v)
	case map[string]any:
		return nested(v)
	case bson.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = value2JSON(e.Value)
		}
		return m
	case bson.A:
		return list(v)
	case []any:
		return list(v)
	default:
		return v
	}
}

// nested keeps "_id" as is; only the top-level key is renamed.
func nested(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value2JSON(value)
	}
	return out
}

func list(values []any) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value2JSON(value)
	}
	return out
}
