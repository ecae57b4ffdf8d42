package types

// Profile is the public part of an account
type Profile struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Name is the display name, or the part of the email before the @ when no
// display name is set
func (p *Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	for i := 0; i < len(p.Email); i++ {
		if p.Email[i] == '@' {
			return p.Email[:i]
		}
	}
	return p.Email
}

// MealSlot is one of the three meals of a day
type MealSlot string

const (
	Breakfast MealSlot = "breakfast"
	Lunch     MealSlot = "lunch"
	Dinner    MealSlot = "dinner"
)

// MealSlots lists the slots in day order
var MealSlots = []MealSlot{Breakfast, Lunch, Dinner}

// Valid reports whether s is a known slot
func (s MealSlot) Valid() bool {
	return s == Breakfast || s == Lunch || s == Dinner
}

// MealPlan maps a YYYY-MM-DD date to the recipes planned for each slot
type MealPlan map[string]map[MealSlot]RecipeRef

// Comment is a review left on a recipe
type Comment struct {
	ID        string `json:"id"`
	RecipeID  string `json:"recipeId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto,omitempty"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}
