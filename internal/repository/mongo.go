package repository

import (
	"context"
	"errors"
	"fmt"

	"address-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepository stores addresses as GeoJSON documents in a MongoDB collection.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type addressDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Address  string             `bson:"address"`
	Location models.GeoPoint    `bson:"location"`
}

// ConnectMongo opens a client for uri and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("repository: failed to ping mongodb: %w", err)
	}

	return client, nil
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(client *mongo.Client, database, collection string) *MongoRepository {
	return &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// EnsureIndexes creates the 2dsphere index $near queries depend on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
		Options: options.Index().SetName("location_2dsphere"),
	})
	if err != nil {
		return fmt.Errorf("repository: failed to create 2dsphere index: %w", err)
	}
	return nil
}

// CreateAddress inserts a new document and returns it with the generated ObjectID.
func (r *MongoRepository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	doc := fromAddressDomain(address)
	doc.ID = primitive.NilObjectID

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert address: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("repository: unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid

	return toAddressDomain(doc), nil
}

// UpdateAddress overwrites name, address and location of the document with the given id.
// It returns nil without error when no document matches.
func (r *MongoRepository) UpdateAddress(ctx context.Context, id string, address *models.Address) (*models.Address, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("repository: invalid address id %q: %w", id, err)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: address.Name},
		{Key: "address", Value: address.Address},
		{Key: "location", Value: address.Location},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc addressDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to update address: %w", err)
	}

	return toAddressDomain(doc), nil
}

// DeleteAddress removes the document with the given id if it exists.
func (r *MongoRepository) DeleteAddress(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("repository: invalid address id %q: %w", id, err)
	}

	if _, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return fmt.Errorf("repository: failed to delete address: %w", err)
	}
	return nil
}

// FindAddressesNear runs a $near query; MongoDB returns the matches sorted nearest first.
func (r *MongoRepository) FindAddressesNear(ctx context.Context, point models.GeoPoint, maxDistance float64) ([]models.Address, error) {
	filter := bson.D{{Key: "location", Value: bson.D{
		{Key: "$near", Value: bson.D{
			{Key: "$geometry", Value: point},
			{Key: "$maxDistance", Value: maxDistance},
		}},
	}}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute near query: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []addressDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: failed to decode addresses: %w", err)
	}

	addresses := make([]models.Address, 0, len(docs))
	for _, doc := range docs {
		addresses = append(addresses, *toAddressDomain(doc))
	}

	return addresses, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// --- Mapper Functions ---

func toAddressDomain(doc addressDocument) *models.Address {
	return &models.Address{
		ID:       doc.ID.Hex(),
		Name:     doc.Name,
		Address:  doc.Address,
		Location: doc.Location,
	}
}

func fromAddressDomain(address *models.Address) addressDocument {
	doc := addressDocument{
		Name:     address.Name,
		Address:  address.Address,
		Location: address.Location,
	}
	if oid, err := primitive.ObjectIDFromHex(address.ID); err == nil {
		doc.ID = oid
	}
	return doc
}
