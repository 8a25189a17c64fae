package repository

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/infrastructure/database"
	"gallery-backend/internal/shared/apperror"
)

const sortPopularity = "popularity"

// sortFields: tên field API → field trong document
var sortFields = map[string]string{
	"name":      "name",
	"username":  "username",
	"slug":      "slug",
	"age":       "age",
	"country":   "country",
	"status":    "status",
	"views":     "views",
	"likes":     "likes",
	"posts":     "posts",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

// buildFilter dịch ListFilter sang Mongo query
func buildFilter(f girl.ListFilter) bson.M {
	filter := bson.M{}

	if term := strings.TrimSpace(f.Search); term != "" {
		re := database.ContainsRegex(term)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"username": re},
			bson.M{"slug": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Country != "" {
		filter["country"] = f.Country
	}
	if age := database.Range(f.MinAge, f.MaxAge); age != nil {
		filter["age"] = age
	}

	return filter
}

// buildSort: mặc định createdAt desc, popularity = likes desc rồi views desc
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
