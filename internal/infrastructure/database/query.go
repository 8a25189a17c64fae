package database

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ContainsRegex: case-insensitive substring match, term được escape
// nên ký tự đặc biệt của regex không có tác dụng
func ContainsRegex(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

// SortOrder: "asc" → 1, còn lại → -1 (mặc định desc)
func SortOrder(dir string) int {
	if strings.EqualFold(dir, SortAsc) {
		return 1
	}
	return -1
}

// Range build {$gte, $lte} cho các bound có mặt, nil nếu không có bound nào
func Range[T any](lo, hi *T) bson.M {
	if lo == nil && hi == nil {
		return nil
	}
	r := bson.M{}
	if lo != nil {
		r["$gte"] = *lo
	}
	if hi != nil {
		r["$lte"] = *hi
	}
	return r
}
