package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/infrastructure/database"
	"gallery-backend/pkg/pagination"
)

type girlRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository tạo repository trên collection girls
func NewMongoRepository(db *mongo.Database) girl.Repository {
	return &girlRepository{coll: db.Collection(database.CollectionGirls)}
}

// ========================================
// WRITE
// ========================================

func (r *girlRepository) Create(ctx context.Context, g *girl.Girl) (*girl.Girl, error) {
	doc := toDocument(g)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, girl.ErrGirlAlreadyExists.WithCause(err)
		}
		return nil, fmt.Errorf("insert girl: %w", err)
	}
	return toEntity(doc), nil
}

func (r *girlRepository) Update(ctx context.Context, g *girl.Girl) (*girl.Girl, error) {
	oid, err := database.ParseObjectID(g.ID)
	if err != nil {
		return nil, err
	}

	var updated girlDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		updateDocument(g),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, girl.ErrGirlNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, girl.ErrGirlAlreadyExists.WithCause(err)
		}
		return nil, fmt.Errorf("update girl %s: %w", g.ID, err)
	}
	return toEntity(&updated), nil
}

func (r *girlRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := database.ParseObjectID(id)
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete girl %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (r *girlRepository) IncrementPosts(ctx context.Context, id string, delta int) error {
	oid, err := database.ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"posts": delta}})
	if err != nil {
		return fmt.Errorf("increment posts of girl %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return girl.ErrGirlNotFound
	}
	return nil
}

// ========================================
// READ
// ========================================

func (r *girlRepository) FindByID(ctx context.Context, id string) (*girl.Girl, error) {
	oid, err := database.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *girlRepository) FindBySlug(ctx context.Context, slug string) (*girl.Girl, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *girlRepository) FindByUsernameOrName(ctx context.Context, username, name, excludeID string) (*girl.Girl, error) {
	filter := bson.M{"$or": bson.A{bson.M{"username": username}, bson.M{"name": name}}}
	if excludeID != "" {
		oid, err := database.ParseObjectID(excludeID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	found, err := r.findOne(ctx, filter)
	if errors.Is(err, girl.ErrGirlNotFound) {
		return nil, nil
	}
	return found, err
}

func (r *girlRepository) findOne(ctx context.Context, filter bson.M) (*girl.Girl, error) {
	var doc girlDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, girl.ErrGirlNotFound
		}
		return nil, fmt.Errorf("find girl: %w", err)
	}
	return toEntity(&doc), nil
}

// List chạy count và find song song
func (r *girlRepository) List(ctx context.Context, f girl.ListFilter) (*pagination.Page[*girl.Girl], error) {
	sort, err := buildSort(f.SortBy, f.SortDir)
	if err != nil {
		return nil, err
	}
	params := pagination.New(f.Page, f.Limit)
	filter := buildFilter(f)

	var (
		total int64
		docs  []girlDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("count girls: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		opts := options.Find().
			SetSort(sort).
			SetSkip(params.Skip()).
			SetLimit(int64(params.Limit))
		cur, err := r.coll.Find(gctx, filter, opts)
		if err != nil {
			return fmt.Errorf("find girls: %w", err)
		}
		if err := cur.All(gctx, &docs); err != nil {
			return fmt.Errorf("decode girls: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*girl.Girl, len(docs))
	for i := range docs {
		items[i] = toEntity(&docs[i])
	}
	page := pagination.NewPage(items, total, params)
	return &page, nil
}

func (r *girlRepository) Summaries(ctx context.Context, ids []string) (map[string]girl.Summary, error) {
	out := make(map[string]girl.Summary, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "username": 1, "slug": 1, "image": 1})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find girl summaries: %w", err)
	}
	var docs []summaryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode girl summaries: %w", err)
	}
	for i := range docs {
		s := toSummary(&docs[i])
		out[s.ID] = s
	}
	return out, nil
}
