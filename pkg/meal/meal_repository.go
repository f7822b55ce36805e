package meal

import (
	"Mataam-Backoffice/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	MealRepository interface {
		GetMealByID(ctx context.Context, id string) (*entities.Meal, error)
		GetMealByCode(ctx context.Context, restaurantID, code string) (*entities.Meal, error)
		GetMealsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Meal, error)
		GetMeals(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Meal, int64, error)
		CreateMealWithComponents(ctx context.Context, meal *entities.Meal) error
		UpdateMeal(ctx context.Context, meal *entities.Meal) error
		ReplaceMealComponents(ctx context.Context, meal *entities.Meal, components []entities.MealComponent) error
		SoftDeleteMealCascade(ctx context.Context, id string) error
		CountMenuItemsForMeal(ctx context.Context, mealID string) (int64, error)
	}

	mealRepository struct {
		db *gorm.DB
	}
)

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Components").
		Preload("Components.Item").
		Preload("Components.Recipe").
		Preload("Components.Recipe.Lines").
		Preload("Components.Recipe.Lines.Item")
}

func (r *mealRepository) GetMealByID(ctx context.Context, id string) (*entities.Meal, error) {
	var meal entities.Meal
	if err := r.preloaded(ctx).Where("id = ?", id).First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *mealRepository) GetMealByCode(ctx context.Context, restaurantID, code string) (*entities.Meal, error) {
	var meal entities.Meal
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND code = ?", restaurantID, code).
		First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *mealRepository) GetMealsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Meal, error) {
	var meals []*entities.Meal
	if len(ids) == 0 {
		return meals, nil
	}
	if err := r.preloaded(ctx).Where("id IN ?", ids).Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mealRepository) GetMeals(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Meal, int64, error) {
	var meals []*entities.Meal
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)

	if err := query.Model(&entities.Meal{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preloaded(ctx).
		Where("restaurant_id = ?", restaurantID).
		Offset(offset).Limit(limit).
		Order("code asc").
		Find(&meals).Error; err != nil {
		return nil, 0, err
	}

	return meals, count, nil
}

func (r *mealRepository) CreateMealWithComponents(ctx context.Context, meal *entities.Meal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(meal).Error
	})
}

func (r *mealRepository) UpdateMeal(ctx context.Context, meal *entities.Meal) error {
	return r.db.WithContext(ctx).Omit("Components").Save(meal).Error
}

// ReplaceMealComponents mirrors the recipe line replacement: lock the meal
// row, drop the old component set, insert the new one, save the recomputed
// derived fields, all in one transaction.
func (r *mealRepository) ReplaceMealComponents(ctx context.Context, meal *entities.Meal, components []entities.MealComponent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked entities.Meal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", meal.ID).
			First(&locked).Error; err != nil {
			return err
		}

		if err := tx.Where("meal_id = ?", meal.ID).
			Delete(&entities.MealComponent{}).Error; err != nil {
			return err
		}

		for i := range components {
			components[i].MealID = meal.ID
		}
		if err := tx.Create(&components).Error; err != nil {
			return err
		}

		return tx.Omit("Components").Save(meal).Error
	})
}

// SoftDeleteMealCascade soft-deletes the meal and hard-deletes its owned
// components; components have no existence outside their meal.
func (r *mealRepository) SoftDeleteMealCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Meal{}).
			Where("id = ?", id).
			Update("is_available", false).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("meal_id = ?", id).
			Delete(&entities.MealComponent{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Meal{}).Error
	})
}

func (r *mealRepository) CountMenuItemsForMeal(ctx context.Context, mealID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.MenuItem{}).
		Joins("JOIN menus ON menus.id = menu_items.menu_id AND menus.deleted_at IS NULL").
		Where("menu_items.meal_id = ?", mealID).
		Count(&count).Error
	return count, err
}
