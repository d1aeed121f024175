// Package testutil provides in-memory stand-ins for tests.
package testutil

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/deppfellow/shopbuilder/internal/dberr"
	"github.com/deppfellow/shopbuilder/internal/identifier"
	"github.com/deppfellow/shopbuilder/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
)

var _ repository.Documents = (*Documents)(nil)

// Documents is an in-memory repository.Documents. Records are stored as
// encoded BSON so reads see the same shapes the real store returns.
type Documents struct {
	mu          sync.Mutex
	collections map[string][]bson.Raw

	// Err, when set, is returned (wrapped by dberr) from every operation.
	Err error

	// Now stamps created_at/updated_at. Defaults to time.Now.
	Now func() time.Time
}

func NewDocuments() *Documents {
	return &Documents{
		collections: make(map[string][]bson.Raw),
		Now:         time.Now,
	}
}

func (d *Documents) Insert(_ context.Context, collection string, record any) (identifier.ID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return identifier.Nil, dberr.Wrap("insert", collection, d.Err)
	}

	doc, err := repository.ToDocument(record, d.Now())
	if err != nil {
		return identifier.Nil, dberr.Wrap("insert", collection, err)
	}

	id := identifier.New()
	raw, err := bson.Marshal(append(bson.D{{Key: "_id", Value: id}}, doc...))
	if err != nil {
		return identifier.Nil, dberr.Wrap("insert", collection, err)
	}

	d.collections[collection] = append(d.collections[collection], raw)
	return id, nil
}

func (d *Documents) QueryAll(_ context.Context, collection string, filter repository.Filter) ([]bson.M, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return nil, dberr.Wrap("query", collection, d.Err)
	}

	docs := []bson.M{}
	for _, raw := range d.collections[collection] {
		doc, err := decode(raw)
		if err != nil {
			return nil, dberr.Wrap("query", collection, err)
		}
		if matches(doc, filter) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (d *Documents) FindOne(_ context.Context, collection string, id identifier.ID) (bson.M, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return nil, false, dberr.Wrap("find", collection, d.Err)
	}

	for _, raw := range d.collections[collection] {
		doc, err := decode(raw)
		if err != nil {
			return nil, false, dberr.Wrap("find", collection, err)
		}
		if doc["_id"] == id {
			return doc, true, nil
		}
	}
	return nil, false, nil
}

func (d *Documents) Collections(_ context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return nil, dberr.Wrap("list collections", "", d.Err)
	}

	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Count reports how many documents collection holds.
func (d *Documents) Count(collection string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.collections[collection])
}

func decode(raw bson.Raw) (bson.M, error) {
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func matches(doc bson.M, filter repository.Filter) bool {
	for key, want := range filter {
		if !reflect.DeepEqual(doc[key], want) {
			return false
		}
	}
	return true
}
