package girl

import (
	"fmt"
	"time"

	"gallery-backend/internal/shared/utils"
)

// ========================================
// STATUS
// ========================================

type Status string

const (
	StatusPublic  Status = "public"
	StatusPrivate Status = "private"
	StatusDeleted Status = "deleted"
)

// ========================================
// ENTITY
// ========================================

// Asset là reference tới file trên storage provider
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// IsEmpty: chưa có file nào được upload
func (a Asset) IsEmpty() bool {
	return a.PublicID == ""
}

type Socials struct {
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	OnlyFans  string `json:"onlyfans"`
	Fansly    string `json:"fansly"`
	Other     string `json:"other"`
}

// Girl là profile entity, ID luôn là hex string
type Girl struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       Asset     `json:"image"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Posts       int64     `json:"posts"`
	Status      Status    `json:"status"`
	Age         *int      `json:"age,omitempty"`
	Country     string    `json:"country,omitempty"`
	Tags        []string  `json:"tags"`
	Socials     Socials   `json:"socials"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ImageFolder là folder upload ảnh của profile: "girl/<name>+<username>"
func (g *Girl) ImageFolder() string {
	return fmt.Sprintf("girl/%s+%s", g.Name, g.Username)
}

// DerivedTags trả các tag sinh từ profile: name, "age: N", country, username
func (g *Girl) DerivedTags() []string {
	tags := []string{g.Name}
	if g.Age != nil {
		tags = append(tags, fmt.Sprintf("age: %d", *g.Age))
	}
	if g.Country != "" {
		tags = append(tags, g.Country)
	}
	return append(tags, g.Username)
}

// MergeTags gộp tag của caller (đứng trước) với derived tags, bỏ trùng
func (g *Girl) MergeTags(caller []string) []string {
	all := make([]string, 0, len(caller)+4)
	all = append(all, caller...)
	all = append(all, g.DerivedTags()...)
	return utils.UniqueStrings(all...)
}

// CallerTags trả các tag không phải derived, giữ thứ tự
func (g *Girl) CallerTags() []string {
	derived := make(map[string]struct{}, 4)
	for _, t := range g.DerivedTags() {
		derived[t] = struct{}{}
	}
	out := make([]string, 0, len(g.Tags))
	for _, t := range g.Tags {
		if _, ok := derived[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// Summary là phần hiển thị được populate vào post
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Slug     string `json:"slug"`
	Image    Asset  `json:"image"`
}
