package recipe

import (
	"Mataam-Backoffice/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipeByCode(ctx context.Context, restaurantID, code string) (*entities.Recipe, error)
		GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Recipe, error)
		GetRecipes(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesWithLines(ctx context.Context, restaurantID string) ([]*entities.Recipe, error)
		CreateRecipeWithLines(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		ReplaceRecipeLines(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeLine) error
		SoftDeleteRecipe(ctx context.Context, id string) error
		CountMealComponentsForRecipe(ctx context.Context, recipeID string) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Item").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipeByCode(ctx context.Context, restaurantID, code string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND code = ?", restaurantID, code).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if len(ids) == 0 {
		return recipes, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Item").
		Where("id IN ?", ids).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)

	if err := query.Model(&entities.Recipe{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Lines").
		Preload("Lines.Item").
		Offset(offset).Limit(limit).
		Order("code asc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesWithLines(ctx context.Context, restaurantID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Item").
		Where("restaurant_id = ?", restaurantID).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CreateRecipeWithLines persists the recipe and its owned lines in a
// single transaction; readers never observe a recipe without lines.
func (r *recipeRepository) CreateRecipeWithLines(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(recipe).Error
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit("Lines").Save(recipe).Error
}

// ReplaceRecipeLines deletes the stored line set, inserts the new one and
// saves the recomputed derived fields under one FOR UPDATE lock on the
// recipe row. Two concurrent replacements serialize rather than interleave.
func (r *recipeRepository) ReplaceRecipeLines(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked entities.Recipe
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", recipe.ID).
			First(&locked).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&entities.RecipeLine{}).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		return tx.Omit("Lines").Save(recipe).Error
	})
}

func (r *recipeRepository) SoftDeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", id).
			Update("is_available", false).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) CountMealComponentsForRecipe(ctx context.Context, recipeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.MealComponent{}).
		Joins("JOIN meals ON meals.id = meal_components.meal_id AND meals.deleted_at IS NULL").
		Where("meal_components.recipe_id = ?", recipeID).
		Count(&count).Error
	return count, err
}
