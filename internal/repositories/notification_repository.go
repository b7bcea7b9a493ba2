package repositories

import (
	"context"
	"log"

	"github.com/pawhaven/rescue-console/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNotificationRepository implements notify.FeedStore over the shared
// notifications collection.
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// Subscribe pushes the full current set once at startup and again after
// every collection change, in store write order, until ctx ends. Delivery
// rides on a MongoDB change stream.
func (r *MongoNotificationRepository) Subscribe(ctx context.Context, callback func([]models.Notification)) error {
	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	callback(items)

	stream, err := r.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		items, err := r.load(ctx)
		if err != nil {
			log.Printf("Failed to reload notifications after change event: %v", err)
			continue
		}
		callback(items)
	}
	if ctx.Err() != nil {
		return nil
	}
	return stream.Err()
}

// Update applies a partial field update to one notification.
func (r *MongoNotificationRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{}
	for key, value := range fields {
		set[key] = value
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *MongoNotificationRepository) load(ctx context.Context) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"deleted": bson.M{"$ne": true}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Notification
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
