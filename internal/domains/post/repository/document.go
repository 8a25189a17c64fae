package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/infrastructure/database"
)

type postDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Title           string               `bson:"title"`
	Slug            string               `bson:"slug"`
	Description     string               `bson:"description"`
	Content         []contentDocument    `bson:"content"`
	Status          string               `bson:"status"`
	Visibility      string               `bson:"visibility"`
	Girl            primitive.ObjectID   `bson:"girl"`
	Likes           int64                `bson:"likes"`
	Views           int64                `bson:"views"`
	Shares          int64                `bson:"shares"`
	Comments        int64                `bson:"comments"`
	Bookmarks       int64                `bson:"bookmarks"`
	ImageCount      int                  `bson:"imageCount"`
	VideoCount      int                  `bson:"videoCount"`
	AudioCount      int                  `bson:"audioCount"`
	Poll            *pollDocument        `bson:"poll,omitempty"`
	Tags            []string             `bson:"tags"`
	Keywords        []string             `bson:"keywords"`
	MetaDescription string               `bson:"metaDescription"`
	PublishedAt     *time.Time           `bson:"publishedAt,omitempty"`
	ScheduledAt     *time.Time           `bson:"scheduledAt,omitempty"`
	RelatedPosts    []primitive.ObjectID `bson:"relatedPosts"`
	FeaturedIn      []primitive.ObjectID `bson:"featuredIn"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

type contentDocument struct {
	Type      string   `bson:"type"`
	URL       string   `bson:"url"`
	Thumbnail string   `bson:"thumbnail"`
	Caption   string   `bson:"caption"`
	Duration  *float64 `bson:"duration,omitempty"`
	Width     *int     `bson:"width,omitempty"`
	Height    *int     `bson:"height,omitempty"`
	Order     int      `bson:"order"`
}

type pollDocument struct {
	Question   string               `bson:"question"`
	Options    []pollOptionDocument `bson:"options"`
	EndsAt     time.Time            `bson:"endsAt"`
	TotalVotes int64                `bson:"totalVotes"`
}

type pollOptionDocument struct {
	Text  string `bson:"text"`
	Votes int64  `bson:"votes"`
}

// ========================================
// MAPPER
// ========================================

func toEntity(d *postDocument) *post.Post {
	p := &post.Post{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Slug:            d.Slug,
		Description:     d.Description,
		Content:         make([]post.ContentItem, len(d.Content)),
		Status:          post.Status(d.Status),
		Visibility:      post.Visibility(d.Visibility),
		Girl:            d.Girl.Hex(),
		Likes:           d.Likes,
		Views:           d.Views,
		Shares:          d.Shares,
		Comments:        d.Comments,
		Bookmarks:       d.Bookmarks,
		ImageCount:      d.ImageCount,
		VideoCount:      d.VideoCount,
		AudioCount:      d.AudioCount,
		Tags:            nonNil(d.Tags),
		Keywords:        nonNil(d.Keywords),
		MetaDescription: d.MetaDescription,
		PublishedAt:     d.PublishedAt,
		ScheduledAt:     d.ScheduledAt,
		RelatedPosts:    hexes(d.RelatedPosts),
		FeaturedIn:      hexes(d.FeaturedIn),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for i, c := range d.Content {
		p.Content[i] = post.ContentItem{
			Type:      post.ContentType(c.Type),
			URL:       c.URL,
			Thumbnail: c.Thumbnail,
			Caption:   c.Caption,
			Duration:  c.Duration,
			Width:     c.Width,
			Height:    c.Height,
			Order:     c.Order,
		}
	}
	if d.Poll != nil {
		options := make([]post.PollOption, len(d.Poll.Options))
		for i, o := range d.Poll.Options {
			options[i] = post.PollOption{Text: o.Text, Votes: o.Votes}
		}
		p.Poll = &post.Poll{
			Question:   d.Poll.Question,
			Options:    options,
			EndsAt:     d.Poll.EndsAt,
			TotalVotes: d.Poll.TotalVotes,
		}
	}
	return p
}

// toDocument không set _id. Lỗi khi một reference id sai format.
func toDocument(p *post.Post) (*postDocument, error) {
	girlID, err := database.ParseObjectID(p.Girl)
	if err != nil {
		return nil, err
	}
	related, err := database.ParseObjectIDs(p.RelatedPosts)
	if err != nil {
		return nil, err
	}
	featured, err := database.ParseObjectIDs(p.FeaturedIn)
	if err != nil {
		return nil, err
	}

	d := &postDocument{
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		Content:         make([]contentDocument, len(p.Content)),
		Status:          string(p.Status),
		Visibility:      string(p.Visibility),
		Girl:            girlID,
		Likes:           p.Likes,
		Views:           p.Views,
		Shares:          p.Shares,
		Comments:        p.Comments,
		Bookmarks:       p.Bookmarks,
		ImageCount:      p.ImageCount,
		VideoCount:      p.VideoCount,
		AudioCount:      p.AudioCount,
		Tags:            nonNil(p.Tags),
		Keywords:        nonNil(p.Keywords),
		MetaDescription: p.MetaDescription,
		PublishedAt:     p.PublishedAt,
		ScheduledAt:     p.ScheduledAt,
		RelatedPosts:    related,
		FeaturedIn:      featured,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for i, c := range p.Content {
		d.Content[i] = contentDocument{
			Type:      string(c.Type),
			URL:       c.URL,
			Thumbnail: c.Thumbnail,
			Caption:   c.Caption,
			Duration:  c.Duration,
			Width:     c.Width,
			Height:    c.Height,
			Order:     c.Order,
		}
	}
	if p.Poll != nil {
		options := make([]pollOptionDocument, len(p.Poll.Options))
		for i, o := range p.Poll.Options {
			options[i] = pollOptionDocument{Text: o.Text, Votes: o.Votes}
		}
		d.Poll = &pollDocument{
			Question:   p.Poll.Question,
			Options:    options,
			EndsAt:     p.Poll.EndsAt,
			TotalVotes: p.Poll.TotalVotes,
		}
	}
	return d, nil
}

// updateDocument: $set document đã merge, optional nil → $unset
// (poll bị xóa, publishedAt/scheduledAt bị bỏ)
func updateDocument(p *post.Post) (bson.M, error) {
	set, err := toDocument(p)
	if err != nil {
		return nil, err
	}

	unset := bson.M{}
	if set.Poll == nil {
		unset["poll"] = ""
	}
	if set.PublishedAt == nil {
		unset["publishedAt"] = ""
	}
	if set.ScheduledAt == nil {
		unset["scheduledAt"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
