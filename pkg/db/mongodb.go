package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(addr, dbName, colName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(addr))
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "could not ping mongo")
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection(colName),
	}, nil
}

// Push upserts one bson document under docid, stamping create_time on
// first insert and update_time on every write.
func (s *MongoStore) Push(docid string, doc []byte) error {
	var obj map[string]interface{}
	if err := bson.Unmarshal(doc, &obj); err != nil {
		return errors.Wrap(err, "could not unmarshal document")
	}
	now := time.Now()
	obj["update_time"] = now
	update := bson.M{
		"$set":         obj,
		"$setOnInsert": bson.M{"create_time": now},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(context.Background(), bson.M{"_id": docid}, update, opts)
	return err
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
