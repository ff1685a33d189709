package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "kv_entries"

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore — реализация на MongoDB. Update выполняется в транзакции
// сессии, поэтому сервер должен быть запущен как replica set.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}
}

func (s *MongoStore) View(ctx context.Context, fn func(tx Tx) error) error {
	return fn(readOnlyTx{get: mongoTx{ctx: ctx, coll: s.coll}.Get})
}

func (s *MongoStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(mongoTx{ctx: sc, coll: s.coll})
	})
	return err
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

type mongoTx struct {
	ctx  context.Context
	coll *mongo.Collection
}

func (t mongoTx) Get(key string) ([]byte, error) {
	var doc mongoEntry
	err := t.coll.FindOne(t.ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (t mongoTx) Set(key string, value []byte) error {
	doc := mongoEntry{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := t.coll.ReplaceOne(t.ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (t mongoTx) Delete(key string) error {
	if _, err := t.coll.DeleteOne(t.ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}
