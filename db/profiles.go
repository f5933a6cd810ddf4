package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulseboard/models"
)

const profilesCollection = "profiles"

// MongoProfileStore persists profiles in the "profiles" collection. It
// satisfies the services.ProfileStore contract: List, Upsert, Remove.
type MongoProfileStore struct {
	coll *mongo.Collection
}

func NewMongoProfileStore() *MongoProfileStore {
	return &MongoProfileStore{coll: GetCollection(profilesCollection)}
}

func (s *MongoProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"lastUpdated": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return profiles, nil
}

func (s *MongoProfileStore) Upsert(ctx context.Context, profile models.Profile) error {
	filter := bson.M{"_id": profile.ID}
	_, err := s.coll.ReplaceOne(ctx, filter, profile, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", profile.ID, err)
	}
	return nil
}

func (s *MongoProfileStore) Remove(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to remove profile %s: %w", id, err)
	}
	return nil
}
