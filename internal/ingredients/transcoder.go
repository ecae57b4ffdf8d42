// Package ingredients converts between an ordered ingredient list and the
// fixed 20-slot flat record used by TheMealDB and by stored custom recipes.
package ingredients

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// MaxSlots is the number of numbered ingredient/measure slots in a flat record.
const MaxSlots = 20

// ErrTooManyIngredients is returned by Validate when a named ingredient would
// land past the last slot.
var ErrTooManyIngredients = errors.New("too many ingredients")

// Ingredient is one row of a recipe's ingredient list.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Flat is a flat ingredient record keyed by numbered slot names.
type Flat map[string]any

// Schema names the slot keys of a flat record. Slot i is stored under
// IngredientPrefix+i and MeasurePrefix+i.
type Schema struct {
	IngredientPrefix string
	MeasurePrefix    string
}

var (
	// Storage is the key scheme of custom recipe documents.
	Storage = Schema{IngredientPrefix: "ingredient", MeasurePrefix: "measure"}

	// MealDB is the key scheme of TheMealDB meal records.
	MealDB = Schema{IngredientPrefix: "strIngredient", MeasurePrefix: "strMeasure"}
)

// IngredientKey returns the ingredient key of slot i (1-based).
func (s Schema) IngredientKey(i int) string {
	return s.IngredientPrefix + strconv.Itoa(i)
}

// MeasureKey returns the measure key of slot i (1-based).
func (s Schema) MeasureKey(i int) string {
	return s.MeasurePrefix + strconv.Itoa(i)
}

// Keys returns all 2*MaxSlots keys of the schema, ingredient keys first.
func (s Schema) Keys() []string {
	keys := make([]string, 0, 2*MaxSlots)
	for i := 1; i <= MaxSlots; i++ {
		keys = append(keys, s.IngredientKey(i))
	}
	for i := 1; i <= MaxSlots; i++ {
		keys = append(keys, s.MeasureKey(i))
	}
	return keys
}

// ToFlat builds the sparse record written when a recipe is first created.
// Entry i of the list goes to slot i+1; entries with a blank name are left out
// and entries past the last slot are dropped.
func (s Schema) ToFlat(list []Ingredient) Flat {
	flat := make(Flat, 2*min(len(list), MaxSlots))
	for i, ing := range list {
		if i >= MaxSlots {
			break
		}
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		flat[s.IngredientKey(i+1)] = ing.Name
		flat[s.MeasureKey(i+1)] = ing.Measure
	}
	return flat
}

// ToFlatForUpdate builds the record written over an existing one. Every slot
// is present: slots without a named entry are set to "" so that a merge-write
// clears ingredients the list no longer holds.
func (s Schema) ToFlatForUpdate(list []Ingredient) Flat {
	flat := make(Flat, 2*MaxSlots)
	for i := 1; i <= MaxSlots; i++ {
		flat[s.IngredientKey(i)] = ""
		flat[s.MeasureKey(i)] = ""
	}
	maps.Copy(flat, s.ToFlat(list))
	return flat
}

// FromFlat reads slots 1..MaxSlots in order and returns the entries whose
// ingredient value is a non-blank string. A missing or non-string measure
// reads as "".
func (s Schema) FromFlat(record map[string]any) []Ingredient {
	list := make([]Ingredient, 0)
	for i := 1; i <= MaxSlots; i++ {
		name, ok := record[s.IngredientKey(i)].(string)
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		measure, _ := record[s.MeasureKey(i)].(string)
		list = append(list, Ingredient{Name: name, Measure: measure})
	}
	return list
}

// ToFlat is Storage.ToFlat.
func ToFlat(list []Ingredient) Flat { return Storage.ToFlat(list) }

// ToFlatForUpdate is Storage.ToFlatForUpdate.
func ToFlatForUpdate(list []Ingredient) Flat { return Storage.ToFlatForUpdate(list) }

// FromFlat is Storage.FromFlat.
func FromFlat(record map[string]any) []Ingredient { return Storage.FromFlat(record) }

// Validate rejects lists that have a named entry beyond slot MaxSlots.
// Trailing blank rows are allowed since they are never stored.
func Validate(list []Ingredient) error {
	for i := MaxSlots; i < len(list); i++ {
		if strings.TrimSpace(list[i].Name) != "" {
			return fmt.Errorf("%w: %q is entry %d, at most %d are stored", ErrTooManyIngredients, list[i].Name, i+1, MaxSlots)
		}
	}
	return nil
}

// Merge applies patch on top of base the way a merge-write does: keys in
// patch replace those in base, every other key of base is kept. Neither
// argument is modified.
func Merge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	maps.Copy(out, base)
	maps.Copy(out, patch)
	return out
}
