package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/shared/apperror"
)

func TestMapper_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	width, height := 800, 600
	p := &post.Post{
		ID:    "65a1b2c3d4e5f6a7b8c9d0e1",
		Title: "Beach day",
		Slug:  "beach-day",
		Content: []post.ContentItem{
			{Type: post.ContentImage, URL: "https://cdn/a.jpg", Thumbnail: "https://cdn/a.jpg", Width: &width, Height: &height},
		},
		Status:     post.StatusPublished,
		Visibility: post.VisibilityPublic,
		Girl:       "65a1b2c3d4e5f6a7b8c9d0e2",
		Likes:      4,
		ImageCount: 1,
		Poll: &post.Poll{
			Question: "Which one?",
			Options:  []post.PollOption{{Text: "a", Votes: 1}, {Text: "b"}},
			EndsAt:   now.Add(time.Hour),
		},
		Tags:         []string{"beach", "day"},
		Keywords:     []string{},
		PublishedAt:  &now,
		RelatedPosts: []string{"65a1b2c3d4e5f6a7b8c9d0e3"},
		FeaturedIn:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := toDocument(p)
	require.NoError(t, err)
	assert.True(t, doc.ID.IsZero(), "toDocument never sets _id")
	assert.Equal(t, p.Girl, doc.Girl.Hex())

	doc.ID, _ = primitive.ObjectIDFromHex(p.ID)
	assert.Equal(t, p, toEntity(doc))
}

func TestToEntity_NilSlicesBecomeEmpty(t *testing.T) {
	p := toEntity(&postDocument{ID: primitive.NewObjectID(), Girl: primitive.NewObjectID()})

	assert.NotNil(t, p.Content)
	assert.NotNil(t, p.Tags)
	assert.NotNil(t, p.Keywords)
	assert.NotNil(t, p.RelatedPosts)
	assert.NotNil(t, p.FeaturedIn)
	assert.Nil(t, p.Poll)
}

func TestToDocument_MalformedReference(t *testing.T) {
	_, err := toDocument(&post.Post{Girl: "65a1b2c3d4e5f6a7b8c9d0e2", RelatedPosts: []string{"bad"}})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func hasKey(raw bson.Raw, path ...string) bool {
	_, err := raw.LookupErr(path...)
	return err == nil
}

func marshalUpdate(t *testing.T, p *post.Post) bson.Raw {
	t.Helper()
	update, err := updateDocument(p)
	require.NoError(t, err)
	raw, err := bson.Marshal(update)
	require.NoError(t, err)
	return raw
}

func TestUpdateDocument_WritesClearedFields(t *testing.T) {
	raw := marshalUpdate(t, &post.Post{
		Title:           "Beach day",
		Girl:            "65a1b2c3d4e5f6a7b8c9d0e2",
		MetaDescription: "",
		Content:         []post.ContentItem{{Type: post.ContentImage, URL: "https://cdn/a", Caption: ""}},
	})

	require.True(t, hasKey(raw, "$set", "metaDescription"), "an emptied meta description must overwrite the stored one")
	assert.Equal(t, "", raw.Lookup("$set", "metaDescription").StringValue())
	assert.True(t, hasKey(raw, "$set", "content", "0", "caption"))
	assert.True(t, hasKey(raw, "$set", "content", "0", "thumbnail"))
	assert.False(t, hasKey(raw, "$set", "_id"))

	for _, field := range []string{"poll", "publishedAt", "scheduledAt"} {
		assert.True(t, hasKey(raw, "$unset", field), field)
		assert.False(t, hasKey(raw, "$set", field), field)
	}
}

func TestUpdateDocument_PresentOptionalsAreSet(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	raw := marshalUpdate(t, &post.Post{
		Title:       "Beach day",
		Girl:        "65a1b2c3d4e5f6a7b8c9d0e2",
		PublishedAt: &now,
		ScheduledAt: &now,
		Poll: &post.Poll{
			Question: "which one?",
			Options:  []post.PollOption{{Text: "a"}, {Text: "b"}},
			EndsAt:   now,
		},
	})

	assert.True(t, hasKey(raw, "$set", "poll", "question"))
	assert.True(t, hasKey(raw, "$set", "publishedAt"))
	assert.True(t, hasKey(raw, "$set", "scheduledAt"))
	assert.False(t, hasKey(raw, "$unset"))
}

func TestUpdateDocument_MalformedReference(t *testing.T) {
	_, err := updateDocument(&post.Post{Girl: "nope"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
