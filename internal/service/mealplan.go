package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/types"
)

const dateLayout = "2006-01-02"

// MealPlanService stores one document per day at users/{uid}/meal_plan/{date}
// with a field per filled slot
type MealPlanService struct {
	store    docstore.Store
	resolver Resolver
	logger   *zap.Logger
}

// NewMealPlanService creates a new MealPlanService instance
func NewMealPlanService(store docstore.Store, resolver Resolver, logger *zap.Logger) *MealPlanService {
	return &MealPlanService{store: store, resolver: resolver, logger: logger}
}

func validateSlot(date string, slot types.MealSlot) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return NewValidationError("date must be in YYYY-MM-DD format")
	}
	if !slot.Valid() {
		return NewValidationError("slot must be breakfast, lunch or dinner")
	}
	return nil
}

// SetSlot plans a recipe for one slot of a day. Other slots of the same day
// are left untouched.
func (s *MealPlanService) SetSlot(ctx context.Context, userID, date string, slot types.MealSlot, recipeID string) (*types.RecipeRef, error) {
	if err := validateSlot(date, slot); err != nil {
		return nil, err
	}
	recipe, err := s.resolver.Resolve(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	ref := types.RecipeRef{ID: recipe.ID, Title: recipe.Title, ThumbnailURL: recipe.ThumbnailURL}
	err = s.store.Merge(ctx, docstore.Doc(colUsers, userID, subMealPlan, date), map[string]any{
		string(slot): map[string]any{
			"id":           ref.ID,
			"title":        ref.Title,
			"thumbnailUrl": ref.ThumbnailURL,
		},
	})
	if err != nil {
		return nil, NewBackendError("could not update meal plan", err)
	}
	return &ref, nil
}

// ClearSlot removes one slot of a day
func (s *MealPlanService) ClearSlot(ctx context.Context, userID, date string, slot types.MealSlot, confirm bool) error {
	if err := validateSlot(date, slot); err != nil {
		return err
	}
	if !confirm {
		return NewConfirmationRequiredError("removing a planned meal")
	}
	err := s.store.Merge(ctx, docstore.Doc(colUsers, userID, subMealPlan, date), map[string]any{
		string(slot): docstore.DeleteField,
	})
	if err != nil {
		return NewBackendError("could not update meal plan", err)
	}
	return nil
}

// Plan returns the whole meal plan of the user. Days with no filled slot
// are left out.
func (s *MealPlanService) Plan(ctx context.Context, userID string) (types.MealPlan, error) {
	docs, err := s.store.Query(ctx, docstore.Collection(colUsers, userID, subMealPlan), docstore.Query{})
	if err != nil {
		return nil, NewBackendError("could not load meal plan", err)
	}

	plan := make(types.MealPlan, len(docs))
	for _, d := range docs {
		day := make(map[types.MealSlot]types.RecipeRef)
		for _, slot := range types.MealSlots {
			m := d.Map(string(slot))
			if m == nil {
				continue
			}
			id, _ := m["id"].(string)
			title, _ := m["title"].(string)
			thumb, _ := m["thumbnailUrl"].(string)
			day[slot] = types.RecipeRef{ID: id, Title: title, ThumbnailURL: thumb}
		}
		if len(day) > 0 {
			plan[d.ID()] = day
		}
	}
	return plan, nil
}
