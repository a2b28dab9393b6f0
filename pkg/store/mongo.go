package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/gridboard/pkg/board"
)

// MongoConfig locates the collection used by MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Defaults for MongoConfig fields left empty.
const (
	DefaultMongoDatabase   = "gridboard"
	DefaultMongoCollection = "boards"
)

// boardDoc is the stored document. The board itself is kept as JSON so that
// free-form item options survive a round trip with their Go types intact.
type boardDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
	Data      []byte    `bson:"data,omitempty"`
}

// MongoStore keeps one document per board in a MongoDB collection.
type MongoStore struct {
	coll   *mongo.Collection
	client *mongo.Client // set when the store owns the connection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storageErr(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storageErr(err, "ping mongo")
	}

	s := NewMongoStoreFromCollection(client.Database(cfg.Database).Collection(cfg.Collection))
	s.client = client
	return s, nil
}

// NewMongoStoreFromCollection uses an existing collection. Close does not
// disconnect the collection's client.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Get(ctx context.Context, id string) (*board.Board, error) {
	var doc boardDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, mongoErr(err, "get board %s", id)
	}
	return decode(doc.Data)
}

func (s *MongoStore) Save(ctx context.Context, b *board.Board) error {
	if err := checkBoard(b); err != nil {
		return err
	}
	data, err := encode(b)
	if err != nil {
		return err
	}

	doc := boardDoc{ID: b.ID, Name: b.Name, Version: b.Version, UpdatedAt: b.UpdatedAt, Data: data}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": b.ID}, doc, opts); err != nil {
		return mongoErr(err, "save board %s", b.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr(err, "delete board %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"data": 0}).
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoErr(err, "list boards")
	}
	var docs []boardDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoErr(err, "list boards")
	}

	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, Summary{ID: d.ID, Name: d.Name, Version: d.Version, UpdatedAt: d.UpdatedAt})
	}
	return out, nil
}

// Close disconnects the client if the store created it.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// mongoErr wraps err as a storage error. Network errors and timeouts are
// marked retryable.
func mongoErr(err error, format string, args ...any) error {
	wrapped := storageErr(err, format, args...)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(wrapped)
	}
	return wrapped
}

var _ Store = (*MongoStore)(nil)
