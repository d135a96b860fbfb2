package service

import (
	"regexp"
	"strconv"

	"github.com/pageza/mealsnap/backend/internal/model"
)

var leadingQuantity = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// ParsedQuantity is the result of splitting free text into a count and a food name.
type ParsedQuantity struct {
	Quantity int
	FoodName string
}

// ParseQuantity extracts a leading integer quantity from text. It never fails:
// text without a usable leading count yields quantity 1 and the whole text,
// normalized, as the food name. An empty FoodName means there is nothing to look up.
func ParseQuantity(text string) ParsedQuantity {
	if m := leadingQuantity.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			return ParsedQuantity{Quantity: n, FoodName: model.NormalizeFoodName(m[2])}
		}
	}
	return ParsedQuantity{Quantity: 1, FoodName: model.NormalizeFoodName(text)}
}
