package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding user documents.
const CollectionName = "users"

const (
	usernameIndex = "users_username_key"
	emailIndex    = "users_email_key"
)

type userDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toDoc(u *models.User) userDoc {
	return userDoc{
		ID:        u.ID,
		Username:  u.UserName,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:           d.ID,
		UserName:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// MongoRepository stores one document per user. Unique indexes on username
// and email back the uniqueness rules.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// Indexes lists the indexes EnsureIndexes creates.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usernameIndex),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndex),
		},
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.coll.Indexes().CreateMany(ctx, Indexes()); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// duplicateField names the field behind a duplicate key error by the index
// mentioned in the server message.
func duplicateField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, usernameIndex):
		return "username"
	case strings.Contains(msg, emailIndex):
		return "email"
	default:
		return ""
	}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, err := r.coll.InsertOne(ctx, toDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &common.UniqueViolation{Field: duplicateField(err), Err: err}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	c := *user
	return &c, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": userName})
}

func (r *MongoRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
