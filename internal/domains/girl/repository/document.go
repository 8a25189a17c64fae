package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gallery-backend/internal/domains/girl"
)

// girlDocument là shape lưu trong collection girls
type girlDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Username    string             `bson:"username"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	Image       assetDocument      `bson:"image"`
	Views       int64              `bson:"views"`
	Likes       int64              `bson:"likes"`
	Posts       int64              `bson:"posts"`
	Status      string             `bson:"status"`
	Age         *int               `bson:"age,omitempty"`
	Country     string             `bson:"country"`
	Tags        []string           `bson:"tags"`
	Socials     socialsDocument    `bson:"socials"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type assetDocument struct {
	URL      string `bson:"url"`
	PublicID string `bson:"publicId"`
}

type socialsDocument struct {
	Twitter   string `bson:"twitter"`
	Instagram string `bson:"instagram"`
	TikTok    string `bson:"tiktok"`
	YouTube   string `bson:"youtube"`
	OnlyFans  string `bson:"onlyfans"`
	Fansly    string `bson:"fansly"`
	Other     string `bson:"other"`
}

// summaryDocument nhận projection name/username/slug/image
type summaryDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Username string             `bson:"username"`
	Slug     string             `bson:"slug"`
	Image    assetDocument      `bson:"image"`
}

// ========================================
// MAPPER
// ========================================

func toEntity(d *girlDocument) *girl.Girl {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &girl.Girl{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Username:    d.Username,
		Slug:        d.Slug,
		Description: d.Description,
		Image:       girl.Asset{URL: d.Image.URL, PublicID: d.Image.PublicID},
		Views:       d.Views,
		Likes:       d.Likes,
		Posts:       d.Posts,
		Status:      girl.Status(d.Status),
		Age:         d.Age,
		Country:     d.Country,
		Tags:        tags,
		Socials: girl.Socials{
			Twitter:   d.Socials.Twitter,
			Instagram: d.Socials.Instagram,
			TikTok:    d.Socials.TikTok,
			YouTube:   d.Socials.YouTube,
			OnlyFans:  d.Socials.OnlyFans,
			Fansly:    d.Socials.Fansly,
			Other:     d.Socials.Other,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// toDocument không set ID, caller tự gán khi cần
func toDocument(g *girl.Girl) *girlDocument {
	return &girlDocument{
		Name:        g.Name,
		Username:    g.Username,
		Slug:        g.Slug,
		Description: g.Description,
		Image:       assetDocument{URL: g.Image.URL, PublicID: g.Image.PublicID},
		Views:       g.Views,
		Likes:       g.Likes,
		Posts:       g.Posts,
		Status:      string(g.Status),
		Age:         g.Age,
		Country:     g.Country,
		Tags:        g.Tags,
		Socials: socialsDocument{
			Twitter:   g.Socials.Twitter,
			Instagram: g.Socials.Instagram,
			TikTok:    g.Socials.TikTok,
			YouTube:   g.Socials.YouTube,
			OnlyFans:  g.Socials.OnlyFans,
			Fansly:    g.Socials.Fansly,
			Other:     g.Socials.Other,
		},
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// updateDocument: $set toàn bộ document đã merge, optional nil → $unset
// để update ghi đè được cả giá trị rỗng
func updateDocument(g *girl.Girl) bson.M {
	update := bson.M{"$set": toDocument(g)}
	if g.Age == nil {
		update["$unset"] = bson.M{"age": ""}
	}
	return update
}

func toSummary(d *summaryDocument) girl.Summary {
	return girl.Summary{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Username: d.Username,
		Slug:     d.Slug,
		Image:    girl.Asset{URL: d.Image.URL, PublicID: d.Image.PublicID},
	}
}
