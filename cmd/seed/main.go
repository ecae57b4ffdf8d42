// Command seed creates demo accounts and a handful of community recipes so a
// fresh database has something to browse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/config"
	"github.com/pageza/recipehub/backend/internal/ingredients"
	"github.com/pageza/recipehub/backend/internal/logger"
	"github.com/pageza/recipehub/backend/internal/mealdb"
	"github.com/pageza/recipehub/backend/internal/server"
	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/session"
	"github.com/pageza/recipehub/backend/internal/types"
)

type demoUser struct {
	name  string
	email string
}

var demoUsers = []demoUser{
	{"John Doe", "john.doe@example.com"},
	{"Jane Smith", "jane.smith@example.com"},
	{"Bob Wilson", "bob.wilson@example.com"},
}

var demoRecipes = []types.RecipeRequest{
	{
		Title:        "Weeknight Tomato Pasta",
		Category:     "Pasta",
		Area:         "Italian",
		Instructions: "Boil the pasta. Soften garlic in olive oil, add tomatoes and simmer 10 minutes. Toss with the pasta and basil.",
		CookingTime:  "25 min",
		Servings:     "2",
		Difficulty:   types.DifficultyEasy,
		Ingredients: []ingredients.Ingredient{
			{Name: "Spaghetti", Measure: "200g"},
			{Name: "Chopped tomatoes", Measure: "1 tin"},
			{Name: "Garlic", Measure: "2 cloves"},
			{Name: "Basil", Measure: "handful"},
		},
	},
	{
		Title:        "Chickpea Curry",
		Category:     "Vegetarian",
		Area:         "Indian",
		Instructions: "Fry onion with the spices, add chickpeas and coconut milk, simmer 20 minutes.",
		CookingTime:  "35 min",
		Servings:     "4",
		Difficulty:   types.DifficultyMedium,
		Ingredients: []ingredients.Ingredient{
			{Name: "Chickpeas", Measure: "2 tins"},
			{Name: "Coconut milk", Measure: "400ml"},
			{Name: "Onion", Measure: "1"},
			{Name: "Curry powder", Measure: "2 tbsp"},
		},
	},
	{
		Title:        "Lemon Tart",
		Category:     "Dessert",
		Area:         "French",
		Instructions: "Blind bake the pastry case. Whisk eggs, sugar, cream and lemon, pour in and bake until just set.",
		CookingTime:  "1 hr 10 min",
		Servings:     "8",
		Difficulty:   types.DifficultyHard,
		Ingredients: []ingredients.Ingredient{
			{Name: "Shortcrust pastry", Measure: "1 sheet"},
			{Name: "Eggs", Measure: "5"},
			{Name: "Caster sugar", Measure: "150g"},
			{Name: "Double cream", Measure: "150ml"},
			{Name: "Lemons", Measure: "3"},
		},
	},
}

func main() {
	password := flag.String("password", "testpassword123", "password for every demo account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	store, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	auth := service.NewAuthService(store, session.NewHub(), session.NewMemoryRevoker(), cfg.JWTSecret, cfg.TokenTTL, log)
	recipes := service.NewRecipeService(store, mealdb.NewClient(cfg.MealDBBaseURL, cfg.MealDBTimeout, log), log)

	for i, u := range demoUsers {
		claims, err := account(ctx, auth, u, *password)
		if err != nil {
			log.Fatal("failed to seed user", zap.String("email", u.email), zap.Error(err))
		}

		req := demoRecipes[i%len(demoRecipes)]
		recipe, err := recipes.Create(ctx, claims, &req)
		if err != nil {
			log.Fatal("failed to seed recipe", zap.String("title", req.Title), zap.Error(err))
		}
		log.Info("seeded recipe", zap.String("id", recipe.ID), zap.String("author", u.email))
	}
}

// account signs the demo user up, or in when the account already exists
func account(ctx context.Context, auth *service.AuthService, u demoUser, password string) (*types.TokenClaims, error) {
	resp, err := auth.SignUp(ctx, &types.SignUpRequest{
		Email:           u.email,
		Password:        password,
		ConfirmPassword: password,
		DisplayName:     u.name,
	})
	if service.IsCode(err, service.CodeAccountExists) {
		resp, err = auth.SignIn(ctx, &types.LoginRequest{Email: u.email, Password: password})
	}
	if err != nil {
		return nil, err
	}
	return auth.ValidateToken(ctx, resp.Token)
}
