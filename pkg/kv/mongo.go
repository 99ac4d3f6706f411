package kv

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo stores each document in one collection, keyed on _id, with a
// version field filtered on during replaces for conditional writes.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDocument struct {
	Key       string    `bson:"_id"`
	Version   int64     `bson:"version"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ConnectMongo dials the configured MongoDB deployment and verifies it
// with a ping before returning the store.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Join(ErrNotReady, err)
	}

	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var doc mongoDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return doc.Data, doc.Version, nil
}

func (m *Mongo) Put(ctx context.Context, key string, value []byte, version int64) error {
	doc := mongoDocument{
		Key:       key,
		Version:   version + 1,
		Data:      value,
		UpdatedAt: time.Now().UTC(),
	}

	if version == 0 {
		_, err := m.coll.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionMismatch
		}
		return err
	}

	res, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key, "version": version}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionMismatch
	}
	return nil
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
