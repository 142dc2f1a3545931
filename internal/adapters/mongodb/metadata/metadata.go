package metadata

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Metadata is one free-form document attached to a journal or account
// by EntityID. It is never read by the posting engine or integrity
// verifier.
type Metadata struct {
	EntityID   string         `bson:"entity_id"`
	EntityName string         `bson:"entity_name"`
	Data       map[string]any `bson:"data"`
	CreatedAt  time.Time      `bson:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

// Repository is the metadata store's contract.
type Repository interface {
	Create(ctx context.Context, collection string, md *Metadata) error
	FindByEntityID(ctx context.Context, collection, entityID string) (*Metadata, error)
}

// MongoRepository implements Repository.
type MongoRepository struct {
	Conn *Connection
}

func NewMongoRepository(conn *Connection) *MongoRepository {
	return &MongoRepository{Conn: conn}
}

func (r *MongoRepository) Create(ctx context.Context, collection string, md *Metadata) error {
	client, err := r.Conn.GetDB(ctx)
	if err != nil {
		return err
	}

	coll := client.Database(r.Conn.Database).Collection(collection)
	_, err = coll.InsertOne(ctx, md)

	return err
}

func (r *MongoRepository) FindByEntityID(ctx context.Context, collection, entityID string) (*Metadata, error) {
	client, err := r.Conn.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	coll := client.Database(r.Conn.Database).Collection(collection)

	var md Metadata

	err = coll.FindOne(ctx, bson.M{"entity_id": entityID}).Decode(&md)
	if err != nil {
		return nil, err
	}

	return &md, nil
}
