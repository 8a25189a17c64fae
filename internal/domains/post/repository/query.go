package repository

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/infrastructure/database"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/internal/shared/utils"
)

const sortPopularity = "popularity"

var sortFields = map[string]string{
	"title":       "title",
	"slug":        "slug",
	"status":      "status",
	"visibility":  "visibility",
	"likes":       "likes",
	"views":       "views",
	"shares":      "shares",
	"comments":    "comments",
	"bookmarks":   "bookmarks",
	"publishedAt": "publishedAt",
	"scheduledAt": "scheduledAt",
	"createdAt":   "createdAt",
	"updatedAt":   "updatedAt",
}

// buildFilter: search và tags loại trừ nhau, có searchTerm thì bỏ qua tags
func buildFilter(f post.ListFilter) (bson.M, error) {
	filter := bson.M{}
	var and bson.A

	if term := strings.TrimSpace(f.Search); term != "" {
		re := database.ContainsRegex(term)
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"slug": re},
			bson.M{"description": re},
		}})
	} else if tags := splitTags(f.Tags); len(tags) > 0 {
		and = append(and, bson.M{"tags": bson.M{"$in": tags}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}

	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Visibility != "" {
		filter["visibility"] = string(f.Visibility)
	}
	if f.Girl != "" {
		oid, err := database.ParseObjectID(f.Girl)
		if err != nil {
			return nil, err
		}
		filter["girl"] = oid
	}
	if f.ContentType != "" {
		filter["content.type"] = string(f.ContentType)
	}
	if likes := database.Range(f.MinLikes, f.MaxLikes); likes != nil {
		filter["likes"] = likes
	}
	if views := database.Range(f.MinViews, f.MaxViews); views != nil {
		filter["views"] = views
	}
	if f.Featured {
		filter["featuredIn.0"] = bson.M{"$exists": true}
	}
	if f.HasPoll {
		filter["poll"] = bson.M{"$exists": true, "$ne": nil}
	}
	if published := database.Range(f.PublishedAfter, f.PublishedBefore); published != nil {
		filter["publishedAt"] = published
	}

	return filter, nil
}

// splitTags chấp nhận cả ?tags=a&tags=b lẫn ?tags=a,b
func splitTags(raw []string) []string {
	var out []string
	for _, t := range raw {
		out = append(out, strings.Split(t, ",")...)
	}
	return utils.UniqueStrings(out...)
}

func buildSort(sortBy, sortDir string) (bson.D, error) {
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if sortBy == sortPopularity {
		return bson.D{{Key: "likes", Value: -1}, {Key: "views", Value: -1}}, nil
	}

	field, ok := sortFields[sortBy]
	if !ok {
		return nil, apperror.Validation("invalid sort field", apperror.FieldError{
			Field:   "sortBy",
			Message: "unknown sort field " + sortBy,
		})
	}
	return bson.D{{Key: field, Value: database.SortOrder(sortDir)}}, nil
}
