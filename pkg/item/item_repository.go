package item

import (
	"Mataam-Backoffice/entities"
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ItemRepository interface {
		CreateItem(ctx context.Context, item *entities.Item) error
		GetItemByID(ctx context.Context, id string) (*entities.Item, error)
		GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Item, error)
		GetItemByCode(ctx context.Context, restaurantID, code string) (*entities.Item, error)
		UpdateItem(ctx context.Context, item *entities.Item) error
		SoftDeleteItem(ctx context.Context, id string) error
		GetItems(ctx context.Context, restaurantID string, available *bool, page, limit int) ([]*entities.Item, int64, error)
		AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (*entities.Item, error)
		CountRecipeLinesForItem(ctx context.Context, itemID string) (int64, error)
		CountMealComponentsForItem(ctx context.Context, itemID string) (int64, error)
		GetLowStockItems(ctx context.Context, restaurantID string, threshold decimal.Decimal) ([]*entities.Item, error)
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Item, error) {
	var items []*entities.Item
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetItemByCode(ctx context.Context, restaurantID, code string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND code = ?", restaurantID, code).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) SoftDeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Item{}).
			Where("id = ?", id).
			Update("is_available", false).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Item{}).Error
	})
}

func (r *itemRepository) GetItems(ctx context.Context, restaurantID string, available *bool, page, limit int) ([]*entities.Item, int64, error) {
	var items []*entities.Item
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if available != nil {
		query = query.Where("is_available = ?", *available)
	}

	if err := query.Model(&entities.Item{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("code asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

// AdjustStock applies the delta under a row lock so two concurrent
// adjustments never lose an update. Stock never goes below zero.
func (r *itemRepository) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (*entities.Item, error) {
	var item entities.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&item).Error; err != nil {
			return err
		}
		next := item.CurrentStock.Add(delta)
		if next.IsNegative() {
			next = decimal.Zero
		}
		item.CurrentStock = next
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) CountRecipeLinesForItem(ctx context.Context, itemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.RecipeLine{}).
		Joins("JOIN recipes ON recipes.id = recipe_lines.recipe_id AND recipes.deleted_at IS NULL").
		Where("recipe_lines.item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

func (r *itemRepository) CountMealComponentsForItem(ctx context.Context, itemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.MealComponent{}).
		Joins("JOIN meals ON meals.id = meal_components.meal_id AND meals.deleted_at IS NULL").
		Where("meal_components.item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

func (r *itemRepository) GetLowStockItems(ctx context.Context, restaurantID string, threshold decimal.Decimal) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND current_stock <= ?", restaurantID, threshold).
		Order("current_stock asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
