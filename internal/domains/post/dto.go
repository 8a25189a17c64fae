package post

import (
	"bytes"
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"gallery-backend/internal/shared/apperror"
)

// metric fields do server tính, client chỉ được gửi 0 hoặc bỏ trống
var serverComputed = []validation.Rule{
	validation.Min(0).Error("is computed by the server and must be absent or 0"),
	validation.Max(0).Error("is computed by the server and must be absent or 0"),
}

var (
	statuses     = []interface{}{StatusDraft, StatusPublished, StatusArchived, StatusDeleted}
	visibilities = []interface{}{VisibilityPublic, VisibilityPrivate, VisibilityFollowers, VisibilitySubscribers}
	contentTypes = []interface{}{ContentImage, ContentVideo, ContentText, ContentAudio, ContentEmbed, ContentPoll}
)

// ========================================
// POLL
// ========================================

type PollOptionInput struct {
	Text  string `json:"text"`
	Votes *int64 `json:"votes"`
}

type PollInput struct {
	Question   string            `json:"question"`
	Options    []PollOptionInput `json:"options"`
	EndsAt     time.Time         `json:"endsAt"`
	TotalVotes *int64            `json:"totalVotes"`
}

func (o PollOptionInput) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Text, validation.Required.Error("option text must not be empty")),
		validation.Field(&o.Votes, serverComputed...),
	)
}

func (p PollInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Question, validation.Required, validation.Length(5, 0)),
		validation.Field(&p.Options, validation.Required, validation.Length(2, 10)),
		validation.Field(&p.EndsAt, validation.Required, validation.Min(time.Now()).Error("must be in the future")),
		validation.Field(&p.TotalVotes, serverComputed...),
	)
}

// ToPoll: mọi bộ đếm vote bắt đầu từ 0
func (p PollInput) ToPoll() *Poll {
	options := make([]PollOption, len(p.Options))
	for i, o := range p.Options {
		options[i] = PollOption{Text: o.Text}
	}
	return &Poll{Question: p.Question, Options: options, EndsAt: p.EndsAt}
}

// ========================================
// CREATE
// ========================================

type CreatePostRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          Status     `json:"status"`
	Visibility      Visibility `json:"visibility"`
	Girl            string     `json:"girl"`
	Poll            *PollInput `json:"poll"`
	Tags            []string   `json:"tags"`
	Keywords        []string   `json:"keywords"`
	MetaDescription string     `json:"metaDescription"`
	PublishedAt     *time.Time `json:"publishedAt"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	RelatedPosts    []string   `json:"relatedPosts"`
	FeaturedIn      []string   `json:"featuredIn"`

	// chỉ để validate: client không được set
	Likes      *int64 `json:"likes"`
	Views      *int64 `json:"views"`
	Shares     *int64 `json:"shares"`
	Comments   *int64 `json:"comments"`
	Bookmarks  *int64 `json:"bookmarks"`
	ImageCount *int   `json:"imageCount"`
	VideoCount *int   `json:"videoCount"`
	AudioCount *int   `json:"audioCount"`
}

func (r CreatePostRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(3, 100),
		),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Status, validation.In(statuses...)),
		validation.Field(&r.Visibility, validation.In(visibilities...)),
		validation.Field(&r.Girl, validation.Required.Error("girl is required"), is.MongoID),
		validation.Field(&r.Poll),
		validation.Field(&r.Tags, validation.Length(0, 15), validation.Each(validation.Length(2, 0))),
		validation.Field(&r.Keywords, validation.Length(0, 10), validation.Each(validation.Length(2, 0))),
		validation.Field(&r.MetaDescription, validation.Length(0, 160)),
		validation.Field(&r.ScheduledAt,
			validation.When(r.Status == StatusArchived, validation.Required.Error("archived posts require scheduledAt")),
		),
		validation.Field(&r.RelatedPosts, validation.Length(0, 10), validation.Each(is.MongoID)),
		validation.Field(&r.FeaturedIn, validation.Length(0, 5), validation.Each(is.MongoID)),
		validation.Field(&r.Likes, serverComputed...),
		validation.Field(&r.Views, serverComputed...),
		validation.Field(&r.Shares, serverComputed...),
		validation.Field(&r.Comments, serverComputed...),
		validation.Field(&r.Bookmarks, serverComputed...),
		validation.Field(&r.ImageCount, serverComputed...),
		validation.Field(&r.VideoCount, serverComputed...),
		validation.Field(&r.AudioCount, serverComputed...),
	))
}

// PollPatch phân biệt 3 trạng thái của "poll" trong update:
// không gửi (Set=false), null (Set=true, Value=nil → xóa poll), object (thay poll)
type PollPatch struct {
	Set   bool
	Value *PollInput
}

// SetPoll thay poll hiện tại bằng in
func SetPoll(in PollInput) PollPatch { return PollPatch{Set: true, Value: &in} }

// RemovePoll tương đương "poll": null
func RemovePoll() PollPatch { return PollPatch{Set: true} }

// UnmarshalJSON chỉ được gọi khi key có mặt, kể cả khi giá trị là null
func (p *PollPatch) UnmarshalJSON(data []byte) error {
	p.Set = true
	p.Value = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var in PollInput
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Value = &in
	return nil
}

func (p PollPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value)
}

func (p PollPatch) Validate() error {
	if p.Value == nil {
		return nil
	}
	return p.Value.Validate()
}

// ========================================
// UPDATE (partial)
// ========================================

// UpdatePostRequest: pointer nil = giữ nguyên.
// Slice nil = giữ nguyên, [] = xóa hết. Poll null = xóa poll.
type UpdatePostRequest struct {
	Title           *string     `json:"title"`
	Description     *string     `json:"description"`
	Status          *Status     `json:"status"`
	Visibility      *Visibility `json:"visibility"`
	Girl            *string     `json:"girl"`
	Poll            PollPatch   `json:"poll"`
	Tags            []string    `json:"tags"`
	Keywords        []string    `json:"keywords"`
	MetaDescription *string     `json:"metaDescription"`
	PublishedAt     *time.Time  `json:"publishedAt"`
	ScheduledAt     *time.Time  `json:"scheduledAt"`
	RelatedPosts    []string    `json:"relatedPosts"`
	FeaturedIn      []string    `json:"featuredIn"`
	Likes           *int64      `json:"likes"`
	Views           *int64      `json:"views"`
	Shares          *int64      `json:"shares"`
	Comments        *int64      `json:"comments"`
	Bookmarks       *int64      `json:"bookmarks"`
}

func (r UpdatePostRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(3, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(statuses...)),
		validation.Field(&r.Visibility, validation.NilOrNotEmpty, validation.In(visibilities...)),
		validation.Field(&r.Girl, validation.NilOrNotEmpty, is.MongoID),
		validation.Field(&r.Poll),
		validation.Field(&r.Tags, validation.Length(0, 15), validation.Each(validation.Length(2, 0))),
		validation.Field(&r.Keywords, validation.Length(0, 10), validation.Each(validation.Length(2, 0))),
		validation.Field(&r.MetaDescription, validation.Length(0, 160)),
		validation.Field(&r.RelatedPosts, validation.Length(0, 10), validation.Each(is.MongoID)),
		validation.Field(&r.FeaturedIn, validation.Length(0, 5), validation.Each(is.MongoID)),
		validation.Field(&r.Likes, validation.Min(0)),
		validation.Field(&r.Views, validation.Min(0)),
		validation.Field(&r.Shares, validation.Min(0)),
		validation.Field(&r.Comments, validation.Min(0)),
		validation.Field(&r.Bookmarks, validation.Min(0)),
	))
}

// IsEmpty: không có field nào được gửi
func (r UpdatePostRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil && r.Visibility == nil &&
		r.Girl == nil && !r.Poll.Set && r.Tags == nil && r.Keywords == nil &&
		r.MetaDescription == nil && r.PublishedAt == nil && r.ScheduledAt == nil &&
		r.RelatedPosts == nil && r.FeaturedIn == nil && r.Likes == nil && r.Views == nil &&
		r.Shares == nil && r.Comments == nil && r.Bookmarks == nil
}

// ApplyTo merge các field có mặt vào p. Slug, content và derived fields do service xử lý.
func (r UpdatePostRequest) ApplyTo(p *Post) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.Visibility != nil {
		p.Visibility = *r.Visibility
	}
	if r.Girl != nil {
		p.Girl = *r.Girl
	}
	if r.Poll.Set {
		p.Poll = nil
		if r.Poll.Value != nil {
			p.Poll = r.Poll.Value.ToPoll()
		}
	}
	if r.Tags != nil {
		p.Tags = append([]string{}, r.Tags...)
	}
	if r.Keywords != nil {
		p.Keywords = append([]string{}, r.Keywords...)
	}
	if r.MetaDescription != nil {
		p.MetaDescription = *r.MetaDescription
	}
	if r.PublishedAt != nil {
		t := *r.PublishedAt
		p.PublishedAt = &t
	}
	if r.ScheduledAt != nil {
		t := *r.ScheduledAt
		p.ScheduledAt = &t
	}
	if r.RelatedPosts != nil {
		p.RelatedPosts = append([]string{}, r.RelatedPosts...)
	}
	if r.FeaturedIn != nil {
		p.FeaturedIn = append([]string{}, r.FeaturedIn...)
	}
	if r.Likes != nil {
		p.Likes = *r.Likes
	}
	if r.Views != nil {
		p.Views = *r.Views
	}
	if r.Shares != nil {
		p.Shares = *r.Shares
	}
	if r.Comments != nil {
		p.Comments = *r.Comments
	}
	if r.Bookmarks != nil {
		p.Bookmarks = *r.Bookmarks
	}
}

// ========================================
// CONTENT DELETION
// ========================================

type DeleteContentRequest struct {
	ContentURL string `json:"contentUrl"`
}

func (r DeleteContentRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.ContentURL, validation.Required.Error("contentUrl is required")),
	))
}

// ========================================
// LIST
// ========================================

// ListFilter bind từ query string của GET /posts
type ListFilter struct {
	Page            int         `form:"page" json:"page"`
	Limit           int         `form:"limit" json:"limit"`
	SortBy          string      `form:"sortBy" json:"sortBy"`
	SortDir         string      `form:"sortDir" json:"sortDir"`
	Search          string      `form:"searchTerm" json:"searchTerm"`
	Tags            []string    `form:"tags" json:"tags"`
	Status          Status      `form:"status" json:"status"`
	Visibility      Visibility  `form:"visibility" json:"visibility"`
	Girl            string      `form:"girl" json:"girl"`
	ContentType     ContentType `form:"contentType" json:"contentType"`
	MinLikes        *int64      `form:"minLikes" json:"minLikes"`
	MaxLikes        *int64      `form:"maxLikes" json:"maxLikes"`
	MinViews        *int64      `form:"minViews" json:"minViews"`
	MaxViews        *int64      `form:"maxViews" json:"maxViews"`
	Featured        bool        `form:"featured" json:"featured"`
	HasPoll         bool        `form:"hasPoll" json:"hasPoll"`
	PublishedAfter  *time.Time  `form:"publishedAfter" json:"publishedAfter" time_format:"2006-01-02T15:04:05Z07:00"`
	PublishedBefore *time.Time  `form:"publishedBefore" json:"publishedBefore" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (f ListFilter) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.SortDir, validation.In("asc", "desc")),
		validation.Field(&f.Status, validation.In(statuses...)),
		validation.Field(&f.Visibility, validation.In(visibilities...)),
		validation.Field(&f.ContentType, validation.In(contentTypes...)),
		validation.Field(&f.Girl, is.MongoID),
		validation.Field(&f.MinLikes, validation.Min(0)),
		validation.Field(&f.MinViews, validation.Min(0)),
	))
}
