package textio

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/bicolour/pkg/errors"
)

// MongoConfig configures a MongoStore. Empty names fall back to the
// package defaults.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Document   string
}

// MongoStore keeps the document in a single MongoDB document of the shape
// {_id, text, updated_at}.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	id     string
}

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Text      string    `bson:"text"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, ioErr(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, ioErr(err, "ping mongo")
	}

	db := cfg.Database
	if db == "" {
		db = DefaultMongoDatabase
	}
	coll := cfg.Collection
	if coll == "" {
		coll = DefaultMongoCollection
	}
	id := cfg.Document
	if id == "" {
		id = DefaultMongoDocument
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(coll),
		id:     id,
	}, nil
}

// WriteText upserts the document.
func (s *MongoStore) WriteText(ctx context.Context, text string) error {
	update := bson.M{"$set": bson.M{
		"text":       text,
		"updated_at": time.Now().UTC(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return ioErr(err, "mongo upsert %s", s.id)
	}
	return nil
}

// ReadText returns the stored text. A missing document is an IO_FAILURE
// wrapping mongo.ErrNoDocuments.
func (s *MongoStore) ReadText(ctx context.Context) (string, error) {
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return "", ioErr(err, "mongo document %s does not exist", s.id)
	}
	if err != nil {
		return "", ioErr(err, "mongo find %s", s.id)
	}
	return doc.Text, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
