package post

import (
	"strings"
	"time"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/shared/utils"
)

// ========================================
// ENUMS
// ========================================

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityPrivate     Visibility = "private"
	VisibilityFollowers   Visibility = "followers"
	VisibilitySubscribers Visibility = "subscribers"
)

type ContentType string

const (
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentText  ContentType = "text"
	ContentAudio ContentType = "audio"
	ContentEmbed ContentType = "embed"
	ContentPoll  ContentType = "poll"
)

// IsMedia: loại content có file nằm trên storage provider
func (t ContentType) IsMedia() bool {
	return t == ContentImage || t == ContentVideo || t == ContentAudio
}

// ========================================
// ENTITY
// ========================================

type ContentItem struct {
	Type      ContentType `json:"type"`
	URL       string      `json:"url"`
	Thumbnail string      `json:"thumbnail,omitempty"`
	Caption   string      `json:"caption,omitempty"`
	Duration  *float64    `json:"duration,omitempty"`
	Width     *int        `json:"width,omitempty"`
	Height    *int        `json:"height,omitempty"`
	Order     int         `json:"order"`
}

type PollOption struct {
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

type Poll struct {
	Question   string       `json:"question"`
	Options    []PollOption `json:"options"`
	EndsAt     time.Time    `json:"endsAt"`
	TotalVotes int64        `json:"totalVotes"`
}

type Post struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Content     []ContentItem `json:"content"`
	Status      Status        `json:"status"`
	Visibility  Visibility    `json:"visibility"`

	// Girl là id tham chiếu, GirlSummary được populate khi đọc
	Girl        string        `json:"girl"`
	GirlSummary *girl.Summary `json:"girlSummary,omitempty"`

	Likes     int64 `json:"likes"`
	Views     int64 `json:"views"`
	Shares    int64 `json:"shares"`
	Comments  int64 `json:"comments"`
	Bookmarks int64 `json:"bookmarks"`

	ImageCount int `json:"imageCount"`
	VideoCount int `json:"videoCount"`
	AudioCount int `json:"audioCount"`

	Poll            *Poll      `json:"poll,omitempty"`
	Tags            []string   `json:"tags"`
	Keywords        []string   `json:"keywords"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	ScheduledAt     *time.Time `json:"scheduledAt,omitempty"`
	RelatedPosts    []string   `json:"relatedPosts"`
	FeaturedIn      []string   `json:"featuredIn"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ========================================
// DERIVED FIELDS
// ========================================

// RecountMedia đếm lại image/video/audio từ Content
func (p *Post) RecountMedia() {
	p.ImageCount, p.VideoCount, p.AudioCount = 0, 0, 0
	for _, item := range p.Content {
		switch item.Type {
		case ContentImage:
			p.ImageCount++
		case ContentVideo:
			p.VideoCount++
		case ContentAudio:
			p.AudioCount++
		}
	}
}

// MergeTitleTags thêm các từ của title (lowercase) vào sau tags hiện có
func (p *Post) MergeTitleTags() {
	words := strings.Fields(strings.ToLower(p.Title))
	all := make([]string, 0, len(p.Tags)+len(words))
	all = append(all, p.Tags...)
	all = append(all, words...)
	p.Tags = utils.UniqueStrings(all...)
}

// MarkPublished set PublishedAt lần đầu status là published
func (p *Post) MarkPublished(now time.Time) {
	if p.Status == StatusPublished && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}

// NextOrder là order tiếp theo sau item cuối
func (p *Post) NextOrder() int {
	next := 0
	for _, item := range p.Content {
		if item.Order >= next {
			next = item.Order + 1
		}
	}
	return next
}

// ContentIndex tìm item theo URL (so khớp chính xác), -1 nếu không có
func (p *Post) ContentIndex(url string) int {
	for i, item := range p.Content {
		if item.URL == url {
			return i
		}
	}
	return -1
}

// WithoutContent trả content mới đã bỏ item thứ i, không sửa p
func (p *Post) WithoutContent(i int) []ContentItem {
	out := make([]ContentItem, 0, len(p.Content)-1)
	out = append(out, p.Content[:i]...)
	return append(out, p.Content[i+1:]...)
}
