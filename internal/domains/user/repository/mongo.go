package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gallery-backend/internal/domains/user"
	"gallery-backend/internal/infrastructure/database"
)

type userRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository tạo repository trên collection users
func NewMongoRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(database.CollectionUsers)}
}

// ========================================
// WRITE
// ========================================

func (r *userRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	doc := toDocument(u)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return toEntity(doc), nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	oid, err := database.ParseObjectID(u.ID)
	if err != nil {
		return nil, err
	}

	var updated userDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": toDocument(u)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, user.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("update user %s: %w", u.ID, err)
	}
	return toEntity(&updated), nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := database.ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"lastLoginAt": at}})
	if err != nil {
		return fmt.Errorf("update last login of %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ========================================
// READ
// ========================================

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := database.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": user.NormalizeEmail(email)})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toEntity(&doc), nil
}

// duplicateError: tên index nằm trong message của E11000 ("username_1")
func duplicateError(err error) error {
	if strings.Contains(err.Error(), "username") {
		return user.ErrUsernameAlreadyExists.WithCause(err)
	}
	return user.ErrEmailAlreadyExists.WithCause(err)
}
