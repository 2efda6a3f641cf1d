package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/internal/domain"
)

// Mongo backs the Store with MongoDB collections. Document ids are
// client-generated strings stored under _id.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
}

// ConnectMongo dials MongoDB and verifies connectivity with a ping.
func ConnectMongo(ctx context.Context, uri, database string, logger *log.Logger) (*Mongo, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return &Mongo{client: client, db: client.Database(database), logger: logger}, nil
}

func (m *Mongo) Collection(name string) Collection {
	return &mongoCollection{store: m, coll: m.db.Collection(name)}
}

func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (m *Mongo) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.Printf("docstore: mongo disconnect error=%v", err)
	}
}

type mongoCollection struct {
	store *Mongo
	coll  *mongo.Collection
}

func (c *mongoCollection) Get(ctx context.Context, id string) (Document, error) {
	var raw bson.M
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, domain.ErrNotFound
		}
		c.store.logger.Printf("docstore: get %s/%s error=%v", c.coll.Name(), id, err)
		return Document{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return documentFromRaw(id, raw), nil
}

func (c *mongoCollection) Add(ctx context.Context, fields map[string]interface{}) (string, error) {
	id := uuid.NewString()
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		c.store.logger.Printf("docstore: add %s error=%v", c.coll.Name(), err)
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return id, nil
}

func (c *mongoCollection) Set(ctx context.Context, id string, fields map[string]interface{}, merge bool) error {
	var err error
	if merge {
		_, err = c.coll.UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M(fields)},
			options.Update().SetUpsert(true))
	} else {
		doc := bson.M{"_id": id}
		for k, v := range fields {
			doc[k] = v
		}
		_, err = c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	}
	if err != nil {
		c.store.logger.Printf("docstore: set %s/%s error=%v", c.coll.Name(), id, err)
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (c *mongoCollection) Delete(ctx context.Context, id string) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.store.logger.Printf("docstore: delete %s/%s error=%v", c.coll.Name(), id, err)
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) Where(ctx context.Context, field string, value interface{}, limit int) ([]Document, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return c.query(ctx, bson.M{field: value}, opts)
}

func (c *mongoCollection) All(ctx context.Context) ([]Document, error) {
	return c.query(ctx, bson.M{}, options.Find())
}

func (c *mongoCollection) query(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Document, error) {
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		c.store.logger.Printf("docstore: find %s error=%v", c.coll.Name(), err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var result []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		id, _ := raw["_id"].(string)
		result = append(result, documentFromRaw(id, raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return result, nil
}

func documentFromRaw(id string, raw bson.M) Document {
	delete(raw, "_id")
	return Document{ID: id, Data: normalizeMap(raw)}
}

// normalizeMap rewrites BSON container and time types into the plain Go
// shapes the rest of the repo works with, so backends are interchangeable.
func normalizeMap(m bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		return normalizeMap(t)
	case map[string]interface{}:
		return normalizeMap(bson.M(t))
	case bson.D:
		return normalizeMap(t.Map())
	case primitive.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
