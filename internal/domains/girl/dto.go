package girl

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"gallery-backend/internal/shared/apperror"
)

// ========================================
// CREATE
// ========================================

type CreateGirlRequest struct {
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Age         *int     `json:"age"`
	Country     string   `json:"country"`
	Tags        []string `json:"tags"`
	Socials     Socials  `json:"socials"`
}

func (r CreateGirlRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(3, 50),
		),
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(3, 30),
		),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Status, validation.In(StatusPublic, StatusPrivate, StatusDeleted)),
		validation.Field(&r.Age, validation.Min(0), validation.Max(120)),
		validation.Field(&r.Country, validation.Length(0, 50)),
		validation.Field(&r.Tags, validation.Length(0, 10), validation.Each(validation.Length(1, 50))),
		validation.Field(&r.Socials),
	))
}

// Validate: mỗi link social là URL hợp lệ hoặc rỗng
func (s Socials) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Twitter, is.URL),
		validation.Field(&s.Instagram, is.URL),
		validation.Field(&s.TikTok, is.URL),
		validation.Field(&s.YouTube, is.URL),
		validation.Field(&s.OnlyFans, is.URL),
		validation.Field(&s.Fansly, is.URL),
		validation.Field(&s.Other, is.URL),
	)
}

// ========================================
// UPDATE (partial)
// ========================================

// UpdateGirlRequest: nil = giữ nguyên, non-nil = ghi đè (kể cả 0 và "").
// Tags: nil = giữ nguyên, [] = chỉ còn derived tags.
type UpdateGirlRequest struct {
	Name        *string       `json:"name"`
	Username    *string       `json:"username"`
	Description *string       `json:"description"`
	Status      *Status       `json:"status"`
	Age         *int          `json:"age"`
	Country     *string       `json:"country"`
	Tags        []string      `json:"tags"`
	Socials     *SocialsPatch `json:"socials"`
	Views       *int64        `json:"views"`
	Likes       *int64        `json:"likes"`
	Posts       *int64        `json:"posts"`
}

type SocialsPatch struct {
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	TikTok    *string `json:"tiktok"`
	YouTube   *string `json:"youtube"`
	OnlyFans  *string `json:"onlyfans"`
	Fansly    *string `json:"fansly"`
	Other     *string `json:"other"`
}

func (r UpdateGirlRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(3, 50)),
		validation.Field(&r.Username, validation.NilOrNotEmpty, validation.Length(3, 30)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(StatusPublic, StatusPrivate, StatusDeleted)),
		validation.Field(&r.Age, validation.Min(0), validation.Max(120)),
		validation.Field(&r.Country, validation.Length(0, 50)),
		validation.Field(&r.Tags, validation.Length(0, 10), validation.Each(validation.Length(1, 50))),
		validation.Field(&r.Socials),
		validation.Field(&r.Views, validation.Min(0)),
		validation.Field(&r.Likes, validation.Min(0)),
		validation.Field(&r.Posts, validation.Min(0)),
	))
}

func (s SocialsPatch) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Twitter, is.URL),
		validation.Field(&s.Instagram, is.URL),
		validation.Field(&s.TikTok, is.URL),
		validation.Field(&s.YouTube, is.URL),
		validation.Field(&s.OnlyFans, is.URL),
		validation.Field(&s.Fansly, is.URL),
		validation.Field(&s.Other, is.URL),
	)
}

// ApplyTo merge các field có mặt vào g. Không đụng slug, tags và image.
func (r UpdateGirlRequest) ApplyTo(g *Girl) {
	if r.Name != nil {
		g.Name = *r.Name
	}
	if r.Username != nil {
		g.Username = *r.Username
	}
	if r.Description != nil {
		g.Description = *r.Description
	}
	if r.Status != nil {
		g.Status = *r.Status
	}
	if r.Age != nil {
		age := *r.Age
		g.Age = &age
	}
	if r.Country != nil {
		g.Country = *r.Country
	}
	if r.Views != nil {
		g.Views = *r.Views
	}
	if r.Likes != nil {
		g.Likes = *r.Likes
	}
	if r.Posts != nil {
		g.Posts = *r.Posts
	}
	if r.Socials != nil {
		r.Socials.applyTo(&g.Socials)
	}
}

func (s SocialsPatch) applyTo(dst *Socials) {
	set := func(field *string, v *string) {
		if v != nil {
			*field = *v
		}
	}
	set(&dst.Twitter, s.Twitter)
	set(&dst.Instagram, s.Instagram)
	set(&dst.TikTok, s.TikTok)
	set(&dst.YouTube, s.YouTube)
	set(&dst.OnlyFans, s.OnlyFans)
	set(&dst.Fansly, s.Fansly)
	set(&dst.Other, s.Other)
}

// IsEmpty: không có field nào được gửi
func (r UpdateGirlRequest) IsEmpty() bool {
	return r.Name == nil && r.Username == nil && r.Description == nil &&
		r.Status == nil && r.Age == nil && r.Country == nil && r.Tags == nil &&
		r.Socials == nil && r.Views == nil && r.Likes == nil && r.Posts == nil
}

// ========================================
// LIST
// ========================================

// ListFilter bind từ query string của GET /girls
type ListFilter struct {
	Page    int    `form:"page" json:"page"`
	Limit   int    `form:"limit" json:"limit"`
	SortBy  string `form:"sortBy" json:"sortBy"`
	SortDir string `form:"sortDir" json:"sortDir"`
	Search  string `form:"searchTerm" json:"searchTerm"`
	Status  Status `form:"status" json:"status"`
	Country string `form:"country" json:"country"`
	MinAge  *int   `form:"minAge" json:"minAge"`
	MaxAge  *int   `form:"maxAge" json:"maxAge"`
}

func (f ListFilter) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.SortDir, validation.In("asc", "desc")),
		validation.Field(&f.Status, validation.In(StatusPublic, StatusPrivate, StatusDeleted)),
		validation.Field(&f.MinAge, validation.Min(0)),
		validation.Field(&f.MaxAge, validation.Min(0)),
	))
}
