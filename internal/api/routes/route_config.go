package routes

import (
	"Mataam-Backoffice/internal/api/handlers"
	"Mataam-Backoffice/internal/middleware"
	"Mataam-Backoffice/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	ItemHandler   handlers.ItemHandler
	RecipeHandler handlers.RecipeHandler
	MealHandler   handlers.MealHandler
	MenuHandler   handlers.MenuHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Items()
	c.Recipes()
	c.Meals()
	c.Menus()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.RegisterStaff)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	items.Post("", c.ItemHandler.CreateItem)
	items.Get("", c.ItemHandler.GetItems)
	items.Get("/low-stock", c.ItemHandler.GetLowStock)
	items.Get("/:id", c.ItemHandler.GetItemDetail)
	items.Patch("/:id", c.ItemHandler.UpdateItem)
	items.Delete("/:id", c.Middleware.AdminOnly(), c.ItemHandler.DeleteItem)

	items.Post("/:id/stock", c.ItemHandler.AdjustStock)
	items.Post("/:id/image", c.ItemHandler.UploadItemImage)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))

	recipes.Post("", c.RecipeHandler.CreateRecipe)
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/stats", c.RecipeHandler.GetRecipeStats)
	recipes.Post("/costing", c.RecipeHandler.ComputeCosts)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
	recipes.Patch("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.Middleware.AdminOnly(), c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/image", c.RecipeHandler.UploadRecipeImage)
}

func (c *Config) Meals() {
	meals := c.App.Group("/api/v1/meals", c.Middleware.AuthMiddleware(c.JWTService))

	meals.Post("", c.MealHandler.CreateMeal)
	meals.Get("", c.MealHandler.GetMeals)
	meals.Post("/costing", c.MealHandler.ComputeCosts)
	meals.Get("/:id", c.MealHandler.GetMealDetail)
	meals.Patch("/:id", c.MealHandler.UpdateMeal)
	meals.Delete("/:id", c.Middleware.AdminOnly(), c.MealHandler.DeleteMeal)
}

func (c *Config) Menus() {
	menus := c.App.Group("/api/v1/menus", c.Middleware.AuthMiddleware(c.JWTService))

	menus.Post("", c.MenuHandler.CreateMenu)
	menus.Get("", c.MenuHandler.GetMenus)
	menus.Get("/active", c.MenuHandler.GetActiveMenus)
	menus.Patch("/items/bulk", c.MenuHandler.BulkUpdateMenuItems)
	menus.Get("/:id", c.MenuHandler.GetMenuDetail)
	menus.Patch("/:id", c.MenuHandler.UpdateMenu)
	menus.Delete("/:id", c.Middleware.AdminOnly(), c.MenuHandler.DeleteMenu)
	menus.Get("/:id/stats", c.MenuHandler.GetMenuStats)

	menus.Post("/:id/items", c.MenuHandler.AddMenuItem)
	menus.Patch("/:id/items/:itemId", c.MenuHandler.UpdateMenuItem)
	menus.Delete("/:id/items/:itemId", c.MenuHandler.RemoveMenuItem)
	menus.Put("/:id/items/order", c.MenuHandler.ReorderMenuItems)

	categories := c.App.Group("/api/v1/categories", c.Middleware.AuthMiddleware(c.JWTService))
	categories.Post("", c.MenuHandler.CreateCategory)
	categories.Get("", c.MenuHandler.GetCategories)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
