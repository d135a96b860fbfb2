package service

import (
	"context"
	"log"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// Tier is one stage of the food lookup chain. A tier reports a miss with
// ok == false and never returns an error.
type Tier interface {
	Lookup(ctx context.Context, text string, parsed ParsedQuantity) (match model.ResolvedFoodMatch, ok bool)
}

// TierFunc adapts a function to a Tier.
type TierFunc func(ctx context.Context, text string, parsed ParsedQuantity) (model.ResolvedFoodMatch, bool)

func (f TierFunc) Lookup(ctx context.Context, text string, parsed ParsedQuantity) (model.ResolvedFoodMatch, bool) {
	return f(ctx, text, parsed)
}

// FirstMatch composes tiers in order; the first hit wins.
func FirstMatch(tiers ...Tier) Tier {
	return TierFunc(func(ctx context.Context, text string, parsed ParsedQuantity) (model.ResolvedFoodMatch, bool) {
		for _, tier := range tiers {
			if match, ok := tier.Lookup(ctx, text, parsed); ok {
				return match, true
			}
		}
		return model.ResolvedFoodMatch{}, false
	})
}

// CustomFoodTier looks names up in the user's custom food store.
func CustomFoodTier(store CustomFoodStore) Tier {
	return TierFunc(func(ctx context.Context, text string, parsed ParsedQuantity) (model.ResolvedFoodMatch, bool) {
		entry, ok, err := store.Get(ctx, parsed.FoodName)
		if err != nil {
			log.Printf("[FoodResolver] Error reading custom foods: %v", err)
			return model.ResolvedFoodMatch{}, false
		}
		if !ok {
			return model.ResolvedFoodMatch{}, false
		}
		return scaleMatch(text, entry.PerUnit, parsed.Quantity), true
	})
}

// StaticTableTier looks names up in a built-in per-unit table.
func StaticTableTier(table FoodTable) Tier {
	return TierFunc(func(_ context.Context, text string, parsed ParsedQuantity) (model.ResolvedFoodMatch, bool) {
		perUnit, ok := table.Lookup(parsed.FoodName)
		if !ok {
			return model.ResolvedFoodMatch{}, false
		}
		return scaleMatch(text, perUnit, parsed.Quantity), true
	})
}

// EstimationTier sends the original utterance to the AI estimator. The
// estimate already covers any quantity wording, so it is not re-multiplied
// and the match reports quantity 1.
func EstimationTier(estimator NutritionEstimator) Tier {
	return TierFunc(func(ctx context.Context, text string, _ ParsedQuantity) (model.ResolvedFoodMatch, bool) {
		estimate := estimator.EstimateFromText(ctx, text)
		if estimate == nil {
			return model.ResolvedFoodMatch{}, false
		}
		return model.ResolvedFoodMatch{
			Name:     text,
			Calories: estimate.Totals.Calories,
			Protein:  estimate.Totals.Protein,
			Carbs:    estimate.Totals.Carbs,
			Fat:      estimate.Totals.Fat,
			Quantity: 1,
		}, true
	})
}

func scaleMatch(text string, perUnit model.PerUnit, quantity int) model.ResolvedFoodMatch {
	q := float64(quantity)
	return model.ResolvedFoodMatch{
		Name:     text,
		Calories: perUnit.Calories * q,
		Protein:  perUnit.Protein * q,
		Carbs:    perUnit.Carbs * q,
		Fat:      perUnit.Fat * q,
		Quantity: quantity,
	}
}

// FoodResolver resolves free text to nutrition through custom foods, the
// static table and finally AI estimation.
type FoodResolver struct {
	chain Tier
}

// NewFoodResolver builds the standard chain. A nil estimator drops the AI tier.
func NewFoodResolver(store CustomFoodStore, table FoodTable, estimator NutritionEstimator) *FoodResolver {
	tiers := []Tier{CustomFoodTier(store), StaticTableTier(table)}
	if estimator != nil {
		tiers = append(tiers, EstimationTier(estimator))
	}
	return NewFoodResolverWithTiers(tiers...)
}

// NewFoodResolverWithTiers builds a resolver over an explicit tier order.
func NewFoodResolverWithTiers(tiers ...Tier) *FoodResolver {
	return &FoodResolver{chain: FirstMatch(tiers...)}
}

// Resolve returns the first tier hit for text. ok is false when no tier
// matched or the text names no food.
func (r *FoodResolver) Resolve(ctx context.Context, text string) (model.ResolvedFoodMatch, bool) {
	parsed := ParseQuantity(text)
	if parsed.FoodName == "" {
		return model.ResolvedFoodMatch{}, false
	}
	return r.chain.Lookup(ctx, text, parsed)
}
