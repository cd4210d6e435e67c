package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding post documents.
const CollectionName = "posts"

type commentDoc struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	Username  string    `bson:"username"`
	CreatedAt time.Time `bson:"createdAt"`
}

type likeDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	CreatedAt time.Time `bson:"createdAt"`
}

type postDoc struct {
	ID        string       `bson:"_id"`
	Body      string       `bson:"body"`
	Username  string       `bson:"username"`
	CreatedAt time.Time    `bson:"createdAt"`
	Comments  []commentDoc `bson:"comments"`
	Likes     []likeDoc    `bson:"likes"`
}

func toCommentDoc(c models.Comment) commentDoc {
	return commentDoc{ID: c.ID, Body: c.Body, Username: c.UserName, CreatedAt: c.CreatedAt}
}

func toLikeDoc(l models.Like) likeDoc {
	return likeDoc{ID: l.ID, Username: l.UserName, CreatedAt: l.CreatedAt}
}

func toDoc(p *models.Post) postDoc {
	d := postDoc{
		ID:        p.ID,
		Body:      p.Body,
		Username:  p.UserName,
		CreatedAt: p.CreatedAt,
		Comments:  make([]commentDoc, 0, len(p.Comments)),
		Likes:     make([]likeDoc, 0, len(p.Likes)),
	}
	for _, c := range p.Comments {
		d.Comments = append(d.Comments, toCommentDoc(c))
	}
	for _, l := range p.Likes {
		d.Likes = append(d.Likes, toLikeDoc(l))
	}
	return d
}

func (d postDoc) model() *models.Post {
	p := &models.Post{
		ID:        d.ID,
		Body:      d.Body,
		UserName:  d.Username,
		CreatedAt: d.CreatedAt.UTC(),
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, models.Comment{
			ID: c.ID, Body: c.Body, UserName: c.Username, CreatedAt: c.CreatedAt.UTC(),
		})
	}
	for _, l := range d.Likes {
		p.Likes = append(p.Likes, models.Like{
			ID: l.ID, UserName: l.Username, CreatedAt: l.CreatedAt.UTC(),
		})
	}
	return p
}

// MongoRepository stores each post as one document with embedded comments
// and likes. Every mutation of the embedded arrays is a single
// FindOneAndUpdate, so the server applies it atomically.
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
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("posts_created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("posts_username_idx"),
		},
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.coll.Indexes().CreateMany(ctx, Indexes()); err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, post *models.Post) error {
	if _, err := r.coll.InsertOne(ctx, toDoc(post)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

// listSort orders posts newest first with the id as tiebreaker.
var listSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

func (r *MongoRepository) List(ctx context.Context) ([]*models.Post, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(listSort))
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	result := make([]*models.Post, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.model())
	}
	return result, nil
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

func (r *MongoRepository) DeleteByUserName(ctx context.Context, userName string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"username": userName})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.DeletedCount, nil
}

// literal keeps user supplied values from being read as field paths or
// operators inside aggregation expressions.
func literal(v any) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

// toggleLikeUpdate is an update pipeline that drops the user's like when
// present and appends like otherwise.
func toggleLikeUpdate(like likeDoc) mongo.Pipeline {
	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}
	liked := bson.D{{Key: "$in", Value: bson.A{
		literal(like.Username),
		bson.D{{Key: "$map", Value: bson.D{
			{Key: "input", Value: likes},
			{Key: "as", Value: "l"},
			{Key: "in", Value: "$$l.username"},
		}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: liked},
				{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: likes},
					{Key: "as", Value: "l"},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$l.username", literal(like.Username)}}}},
				}}}},
				{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{likes, bson.A{literal(like)}}}}},
			}}}},
		}}},
	}
}

func addCommentUpdate(c commentDoc) bson.D {
	return bson.D{{Key: "$push", Value: bson.D{
		{Key: "comments", Value: bson.D{
			{Key: "$each", Value: bson.A{c}},
			{Key: "$position", Value: 0},
		}},
	}}}
}

func removeCommentFilter(postID, commentID string) bson.D {
	return bson.D{{Key: "_id", Value: postID}, {Key: "comments._id", Value: commentID}}
}

func removeCommentUpdate(commentID string) bson.D {
	return bson.D{{Key: "$pull", Value: bson.D{
		{Key: "comments", Value: bson.D{{Key: "_id", Value: commentID}}},
	}}}
}

func (r *MongoRepository) findAndUpdate(ctx context.Context, filter, update any) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) ToggleLike(ctx context.Context, postID string, like models.Like) (*models.Post, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": postID}, toggleLikeUpdate(toLikeDoc(like)))
}

func (r *MongoRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": postID}, addCommentUpdate(toCommentDoc(comment)))
}

func (r *MongoRepository) RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	return r.findAndUpdate(ctx, removeCommentFilter(postID, commentID), removeCommentUpdate(commentID))
}
