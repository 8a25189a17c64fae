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

	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/infrastructure/database"
	"gallery-backend/pkg/pagination"
)

type postRepository struct {
	coll  *mongo.Collection
	girls post.GirlSummaries
}

// NewMongoRepository tạo repository trên collection posts.
// girls dùng để populate GirlSummary sau mỗi lần đọc.
func NewMongoRepository(db *mongo.Database, girls post.GirlSummaries) post.Repository {
	return &postRepository{coll: db.Collection(database.CollectionPosts), girls: girls}
}

// ========================================
// WRITE
// ========================================

func (r *postRepository) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	doc, err := toDocument(p)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, post.ErrPostAlreadyExists.WithCause(err)
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return r.populateOne(ctx, toEntity(doc))
}

func (r *postRepository) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	oid, err := database.ParseObjectID(p.ID)
	if err != nil {
		return nil, err
	}
	update, err := updateDocument(p)
	if err != nil {
		return nil, err
	}

	var updated postDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, post.ErrPostNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, post.ErrPostAlreadyExists.WithCause(err)
		}
		return nil, fmt.Errorf("update post %s: %w", p.ID, err)
	}
	return r.populateOne(ctx, toEntity(&updated))
}

func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := database.ParseObjectID(id)
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete post %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, slug string) (*post.Post, error) {
	var doc postDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("increment views of %s: %w", slug, err)
	}
	return r.populateOne(ctx, toEntity(&doc))
}

// ========================================
// READ
// ========================================

func (r *postRepository) FindByID(ctx context.Context, id string) (*post.Post, error) {
	oid, err := database.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*post.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *postRepository) FindByTitle(ctx context.Context, title, excludeID string) (*post.Post, error) {
	filter := bson.M{"title": title}
	if excludeID != "" {
		oid, err := database.ParseObjectID(excludeID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	found, err := r.findOne(ctx, filter)
	if errors.Is(err, post.ErrPostNotFound) {
		return nil, nil
	}
	return found, err
}

func (r *postRepository) findOne(ctx context.Context, filter bson.M) (*post.Post, error) {
	var doc postDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return r.populateOne(ctx, toEntity(&doc))
}

// List chạy count và find song song, sau đó populate girl cho cả trang
func (r *postRepository) List(ctx context.Context, f post.ListFilter) (*pagination.Page[*post.Post], error) {
	sort, err := buildSort(f.SortBy, f.SortDir)
	if err != nil {
		return nil, err
	}
	filter, err := buildFilter(f)
	if err != nil {
		return nil, err
	}
	params := pagination.New(f.Page, f.Limit)

	var (
		total int64
		docs  []postDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
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
			return fmt.Errorf("find posts: %w", err)
		}
		if err := cur.All(gctx, &docs); err != nil {
			return fmt.Errorf("decode posts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*post.Post, len(docs))
	for i := range docs {
		items[i] = toEntity(&docs[i])
	}
	if err := r.populate(ctx, items); err != nil {
		return nil, err
	}
	page := pagination.NewPage(items, total, params)
	return &page, nil
}

// ========================================
// POPULATE
// ========================================

func (r *postRepository) populateOne(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := r.populate(ctx, []*post.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// populate gắn GirlSummary bằng một query $in cho mọi girl id
func (r *postRepository) populate(ctx context.Context, posts []*post.Post) error {
	if r.girls == nil || len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.Girl)
	}

	summaries, err := r.girls.Summaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("populate girls: %w", err)
	}
	for _, p := range posts {
		if s, ok := summaries[p.Girl]; ok {
			summary := s
			p.GirlSummary = &summary
		}
	}
	return nil
}
