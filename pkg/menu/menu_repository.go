package menu

import (
	"Mataam-Backoffice/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	MenuRepository interface {
		CreateMenu(ctx context.Context, menu *entities.Menu) error
		GetMenuByID(ctx context.Context, id string) (*entities.Menu, error)
		GetMenuByName(ctx context.Context, restaurantID, nameEn string) (*entities.Menu, error)
		GetMenusByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Menu, error)
		GetMenus(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Menu, int64, error)
		GetActiveMenus(ctx context.Context, restaurantID string) ([]*entities.Menu, error)
		UpdateMenu(ctx context.Context, menu *entities.Menu) error
		SoftDeleteMenuCascade(ctx context.Context, id string) error

		AddMenuItem(ctx context.Context, menuItem *entities.MenuItem) error
		GetMenuItemByID(ctx context.Context, id string) (*entities.MenuItem, error)
		GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.MenuItem, error)
		FindMenuItemByRef(ctx context.Context, menuID string, itemID, recipeID, mealID *uuid.UUID) (*entities.MenuItem, error)
		UpdateMenuItem(ctx context.Context, menuItem *entities.MenuItem) error
		UpdateMenuItemsBatch(ctx context.Context, menuItems []*entities.MenuItem) error
		DeleteMenuItem(ctx context.Context, id string) error
		ReorderMenuItems(ctx context.Context, menuID string, orders map[uuid.UUID]int) error

		CreateCategory(ctx context.Context, category *entities.Category) error
		GetCategoryByID(ctx context.Context, id string) (*entities.Category, error)
		GetCategories(ctx context.Context, restaurantID string) ([]*entities.Category, error)
	}

	menuRepository struct {
		db *gorm.DB
	}
)

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Category").
		Preload("Items.Item").
		Preload("Items.Recipe").
		Preload("Items.Recipe.Lines").
		Preload("Items.Recipe.Lines.Item").
		Preload("Items.Meal").
		Preload("Items.Meal.Components").
		Preload("Items.Meal.Components.Item").
		Preload("Items.Meal.Components.Recipe").
		Preload("Items.Meal.Components.Recipe.Lines").
		Preload("Items.Meal.Components.Recipe.Lines.Item")
}

func (r *menuRepository) CreateMenu(ctx context.Context, menu *entities.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *menuRepository) GetMenuByID(ctx context.Context, id string) (*entities.Menu, error) {
	var menu entities.Menu
	if err := r.preloaded(ctx).Where("id = ?", id).First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) GetMenuByName(ctx context.Context, restaurantID, nameEn string) (*entities.Menu, error) {
	var menu entities.Menu
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND name_en = ?", restaurantID, nameEn).
		First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) GetMenusByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Menu, error) {
	var menus []*entities.Menu
	if len(ids) == 0 {
		return menus, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *menuRepository) GetMenus(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Menu, int64, error) {
	var menus []*entities.Menu
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)

	if err := query.Model(&entities.Menu{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name_en asc").Find(&menus).Error; err != nil {
		return nil, 0, err
	}

	return menus, count, nil
}

func (r *menuRepository) GetActiveMenus(ctx context.Context, restaurantID string) ([]*entities.Menu, error) {
	var menus []*entities.Menu
	if err := r.preloaded(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("name_en asc").
		Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *menuRepository) UpdateMenu(ctx context.Context, menu *entities.Menu) error {
	return r.db.WithContext(ctx).Omit("Items").Save(menu).Error
}

// SoftDeleteMenuCascade soft-deletes the menu and hard-deletes its owned
// menu items; they are display entries with no meaning without their menu.
func (r *menuRepository) SoftDeleteMenuCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", id).
			Delete(&entities.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Menu{}).Error
	})
}

func (r *menuRepository) AddMenuItem(ctx context.Context, menuItem *entities.MenuItem) error {
	return r.db.WithContext(ctx).Create(menuItem).Error
}

func (r *menuRepository) GetMenuItemByID(ctx context.Context, id string) (*entities.MenuItem, error) {
	var menuItem entities.MenuItem
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Recipe").
		Preload("Meal").
		Where("id = ?", id).
		First(&menuItem).Error; err != nil {
		return nil, err
	}
	return &menuItem, nil
}

func (r *menuRepository) GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.MenuItem, error) {
	var menuItems []*entities.MenuItem
	if len(ids) == 0 {
		return menuItems, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
		return nil, err
	}
	return menuItems, nil
}

func (r *menuRepository) FindMenuItemByRef(ctx context.Context, menuID string, itemID, recipeID, mealID *uuid.UUID) (*entities.MenuItem, error) {
	query := r.db.WithContext(ctx).Where("menu_id = ?", menuID)
	switch {
	case itemID != nil:
		query = query.Where("item_id = ?", *itemID)
	case recipeID != nil:
		query = query.Where("recipe_id = ?", *recipeID)
	case mealID != nil:
		query = query.Where("meal_id = ?", *mealID)
	}

	var menuItem entities.MenuItem
	if err := query.First(&menuItem).Error; err != nil {
		return nil, err
	}
	return &menuItem, nil
}

func (r *menuRepository) UpdateMenuItem(ctx context.Context, menuItem *entities.MenuItem) error {
	return r.db.WithContext(ctx).Save(menuItem).Error
}

// UpdateMenuItemsBatch writes the known rows in one transaction. It is the
// write half of the best-effort bulk update; the partitioning of unknown
// ids happens in the service.
func (r *menuRepository) UpdateMenuItemsBatch(ctx context.Context, menuItems []*entities.MenuItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, menuItem := range menuItems {
			if err := tx.Save(menuItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *menuRepository) DeleteMenuItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.MenuItem{}).Error
}

// ReorderMenuItems applies every display order in a single transaction
// under a lock on the menu row; either the whole reorder commits or none
// of it does.
func (r *menuRepository) ReorderMenuItems(ctx context.Context, menuID string, orders map[uuid.UUID]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked entities.Menu
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", menuID).
			First(&locked).Error; err != nil {
			return err
		}

		for id, order := range orders {
			if err := tx.Model(&entities.MenuItem{}).
				Where("id = ? AND menu_id = ?", id, menuID).
				Update("display_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *menuRepository) CreateCategory(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *menuRepository) GetCategoryByID(ctx context.Context, id string) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *menuRepository) GetCategories(ctx context.Context, restaurantID string) ([]*entities.Category, error) {
	var categories []*entities.Category
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("display_order asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
