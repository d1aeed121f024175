package repository

import (
	"context"
	"time"

	"github.com/deppfellow/shopbuilder/internal/dberr"
	"github.com/deppfellow/shopbuilder/internal/identifier"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ Documents = (*MongoDocuments)(nil)

// MongoDocuments implements Documents on a *mongo.Database.
type MongoDocuments struct {
	db  *mongo.Database
	now func() time.Time
}

func NewMongoDocuments(db *mongo.Database) *MongoDocuments {
	return &MongoDocuments{
		db:  db,
		now: time.Now,
	}
}

func (m *MongoDocuments) Insert(ctx context.Context, collection string, record any) (identifier.ID, error) {
	doc, err := ToDocument(record, m.now())
	if err != nil {
		return identifier.Nil, dberr.Wrap("insert", collection, err)
	}

	id := identifier.New()
	doc = append(bson.D{{Key: "_id", Value: id}}, doc...)

	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return identifier.Nil, dberr.Wrap("insert", collection, err)
	}

	return id, nil
}

func (m *MongoDocuments) QueryAll(ctx context.Context, collection string, filter Filter) ([]bson.M, error) {
	query := bson.M{}
	for key, value := range filter {
		query[key] = value
	}

	cursor, err := m.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return nil, dberr.Wrap("query", collection, err)
	}

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, dberr.Wrap("query", collection, err)
	}

	return docs, nil
}

func (m *MongoDocuments) FindOne(ctx context.Context, collection string, id identifier.ID) (bson.M, bool, error) {
	var doc bson.M

	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, dberr.Wrap("find", collection, err)
	}

	return doc, true, nil
}

func (m *MongoDocuments) Collections(ctx context.Context) ([]string, error) {
	names, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, dberr.Wrap("list collections", m.db.Name(), err)
	}
	return names, nil
}

// ToDocument encodes record with its bson tags and appends created_at and
// updated_at set to now in UTC. Any _id already on record is dropped.
func ToDocument(record any, now time.Time) (bson.D, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}

	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}

	doc := make(bson.D, 0, len(fields)+2)
	for _, field := range fields {
		if field.Key == "_id" {
			continue
		}
		doc = append(doc, field)
	}

	stamp := primitive.NewDateTimeFromTime(now.UTC())
	return append(doc,
		bson.E{Key: "created_at", Value: stamp},
		bson.E{Key: "updated_at", Value: stamp},
	), nil
}
