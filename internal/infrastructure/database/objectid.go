package database

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gallery-backend/internal/shared/apperror"
)

// ParseObjectID chuyển hex id sang ObjectID.
// Id sai format → validation error trên field "id".
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("invalid id", apperror.FieldError{
			Field:   "id",
			Message: "must be a 24 character hex object id",
		}).WithCause(err)
	}
	return oid, nil
}

// ParseObjectIDs parses every hex id, failing on the first malformed one
func ParseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		oid, err := ParseObjectID(h)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// IsValidObjectID reports whether s is a 24 hex character id
func IsValidObjectID(s string) bool {
	return primitive.IsValidObjectID(s)
}
