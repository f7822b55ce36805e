package config

import (
	"Mataam-Backoffice/internal/api/handlers"
	"Mataam-Backoffice/internal/api/routes"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/internal/middleware"
	"Mataam-Backoffice/internal/utils"
	"Mataam-Backoffice/internal/utils/storage"
	"Mataam-Backoffice/pkg/cache"
	"Mataam-Backoffice/pkg/item"
	"Mataam-Backoffice/pkg/jwt"
	"Mataam-Backoffice/pkg/meal"
	"Mataam-Backoffice/pkg/menu"
	"Mataam-Backoffice/pkg/pricing"
	"Mataam-Backoffice/pkg/recipe"
	"Mataam-Backoffice/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Riyadh",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	appLog, err := logging.New()
	if err != nil {
		return nil, err
	}

	// utils
	s3 := storage.NewAwsS3()
	store := cache.NewMemoryCache()
	policy := loadPricingPolicy()

	// Repository
	userRepository := user.NewUserRepository(db)
	itemRepository := item.NewItemRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	mealRepository := meal.NewMealRepository(db)
	menuRepository := menu.NewMenuRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, appLog)
	itemService := item.NewItemService(itemRepository, store, s3, appLog)
	recipeService := recipe.NewRecipeService(recipeRepository, itemRepository, store, policy, s3, appLog)
	mealService := meal.NewMealService(mealRepository, recipeRepository, recipeService, itemRepository, store, policy, appLog)
	menuService := menu.NewMenuService(menuRepository, itemRepository, recipeRepository, mealRepository, store, appLog)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	mealHandler := handlers.NewMealHandler(mealService, validator)
	menuHandler := handlers.NewMenuHandler(menuService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		ItemHandler:   itemHandler,
		RecipeHandler: recipeHandler,
		MealHandler:   mealHandler,
		MenuHandler:   menuHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func loadPricingPolicy() pricing.Policy {
	recipeMarkup, err := decimal.NewFromString(utils.GetConfig("RECIPE_MARKUP"))
	if err != nil {
		recipeMarkup = decimal.Zero
	}
	mealMarkup, err := decimal.NewFromString(utils.GetConfig("MEAL_MARKUP"))
	if err != nil {
		mealMarkup = decimal.Zero
	}
	// NewPolicy substitutes the defaults for non-positive markups
	return pricing.NewPolicy(recipeMarkup, mealMarkup)
}
