package repositories

import (
	"context"
	"log"
	"time"

	"github.com/pawhaven/rescue-console/backend/internal/models"
	"github.com/pawhaven/rescue-console/backend/internal/registry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// accountDoc is the raw document shape shared by the users, shelters and
// rescuers collections. Field sets overlap but are not identical; the
// registry never sees this shape, only the normalized models.Account.
type accountDoc struct {
	ID               string     `bson:"_id"`
	DisplayName      string     `bson:"displayName"`
	Email            string     `bson:"email"`
	Location         string     `bson:"location,omitempty"`
	Status           string     `bson:"status"`
	Verified         bool       `bson:"verified,omitempty"`
	DeactivatedAt    *time.Time `bson:"deactivatedAt,omitempty"`
	ForceActivatedBy string     `bson:"forceActivatedBy,omitempty"`
	ForceActivatedAt *time.Time `bson:"forceActivatedAt,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt"`
}

// MongoAccountRepository implements registry.AccountStore over the three
// account collections in MongoDB.
type MongoAccountRepository struct {
	db *mongo.Database
}

// NewMongoAccountRepository creates a new MongoAccountRepository
func NewMongoAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{db: db}
}

func (r *MongoAccountRepository) collection(kind models.AccountKind) *mongo.Collection {
	return r.db.Collection(kind.Collection())
}

// Get retrieves an account by id from its kind's collection.
func (r *MongoAccountRepository) Get(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	var doc accountDoc
	err := r.collection(kind).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, registry.ErrNotFound
		}
		return nil, err
	}
	account := doc.normalize(kind)
	return &account, nil
}

// List retrieves all accounts of a kind, newest first.
func (r *MongoAccountRepository) List(ctx context.Context, kind models.AccountKind) ([]models.Account, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection(kind).Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []accountDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	accounts := make([]models.Account, 0, len(docs))
	for _, doc := range docs {
		accounts = append(accounts, doc.normalize(kind))
	}
	return accounts, nil
}

// Update applies a partial field update as a single-document $set/$unset,
// which is atomic at the document level.
func (r *MongoAccountRepository) Update(ctx context.Context, kind models.AccountKind, id string, fields map[string]any) error {
	set := bson.M{}
	unset := bson.M{}
	for key, value := range fields {
		if value == nil {
			unset[key] = ""
			continue
		}
		set[key] = value
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.collection(kind).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return registry.ErrNotFound
	}
	return nil
}

// Delete permanently removes the document. Irreversible.
func (r *MongoAccountRepository) Delete(ctx context.Context, kind models.AccountKind, id string) error {
	res, err := r.collection(kind).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return registry.ErrNotFound
	}
	return nil
}

// normalize maps the raw document to the unioned account shape, forcing the
// loose status strings found upstream into the closed enum.
func (d accountDoc) normalize(kind models.AccountKind) models.Account {
	status, err := models.ParseAccountStatus(d.Status)
	if err != nil {
		// Registrations arrive Pending; treat unrecognized values the
		// same way rather than propagating raw strings.
		log.Printf("account %s/%s has unrecognized status %q, treating as Pending", kind.Collection(), d.ID, d.Status)
		status = models.StatusPending
	}
	return models.Account{
		ID:               d.ID,
		Kind:             kind,
		DisplayName:      d.DisplayName,
		Email:            d.Email,
		Location:         d.Location,
		Status:           status,
		Verified:         d.Verified,
		DeactivatedAt:    d.DeactivatedAt,
		ForceActivatedBy: d.ForceActivatedBy,
		ForceActivatedAt: d.ForceActivatedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Collection:       kind.Collection(),
	}
}
