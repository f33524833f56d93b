package registry

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRegistry looks cameras up in a collection of
// {building_id, camera_id} documents.
type MongoRegistry struct {
	collection *mongo.Collection
}

func NewMongoRegistry(client *mongo.Client, database string, collection string) *MongoRegistry {
	if collection == "" {
		collection = "cameras"
	}
	return &MongoRegistry{
		collection: client.Database(database).Collection(collection),
	}
}

func (m *MongoRegistry) Exists(ctx context.Context, buildingId string, cameraId string) (bool, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{
		"building_id": buildingId,
		"camera_id":   cameraId,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
