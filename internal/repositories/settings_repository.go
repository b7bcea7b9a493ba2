package repositories

import (
	"context"

	"github.com/pawhaven/rescue-console/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSettingsRepository persists the console-wide SystemSettings as one
// singleton document, read and written as a unit.
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new MongoSettingsRepository
func NewMongoSettingsRepository(db *mongo.Database) *MongoSettingsRepository {
	return &MongoSettingsRepository{collection: db.Collection("settings")}
}

// Load returns the stored settings, or defaults when none were saved yet.
func (r *MongoSettingsRepository) Load(ctx context.Context) (models.SystemSettings, error) {
	var settings models.SystemSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": "system"}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.DefaultSystemSettings(), nil
		}
		return models.SystemSettings{}, err
	}
	return settings, nil
}

// Save replaces the settings document wholesale.
func (r *MongoSettingsRepository) Save(ctx context.Context, settings models.SystemSettings) error {
	settings.ID = "system"
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": "system"}, settings, options.Replace().SetUpsert(true))
	return err
}
