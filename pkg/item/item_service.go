package item

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/entities"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/internal/utils/storage"
	"Mataam-Backoffice/pkg/cache"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	ItemService interface {
		CreateItem(ctx context.Context, req domain.CreateItemRequest, restaurantID string) (domain.ItemResponse, error)
		UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, restaurantID string) (domain.ItemResponse, error)
		AdjustStock(ctx context.Context, id string, req domain.AdjustStockRequest, restaurantID string) (domain.ItemResponse, error)
		DeleteItem(ctx context.Context, id string, restaurantID string) error
		GetItems(ctx context.Context, restaurantID string, available *bool, page, limit int) ([]domain.ItemResponse, int64, error)
		GetItemByID(ctx context.Context, id string, restaurantID string) (domain.ItemResponse, error)
		GetLowStock(ctx context.Context, restaurantID string, threshold decimal.Decimal) (domain.LowStockResponse, error)
		UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest, restaurantID string) (string, error)
	}

	itemService struct {
		itemRepository ItemRepository
		cache          cache.Cache
		s3             storage.AwsS3
		log            *logging.Logger
	}
)

func NewItemService(itemRepository ItemRepository, c cache.Cache, s3 storage.AwsS3, log *logging.Logger) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		cache:          c,
		s3:             s3,
		log:            log,
	}
}

func (s *itemService) CreateItem(ctx context.Context, req domain.CreateItemRequest, restaurantID string) (domain.ItemResponse, error) {
	if req.UnitCost.IsNegative() {
		return domain.ItemResponse{}, &domain.ValidationError{Field: "unit_cost", Reason: "must not be negative"}
	}
	if req.CaloriesPerUnit.IsNegative() {
		return domain.ItemResponse{}, &domain.ValidationError{Field: "calories_per_unit", Reason: "must not be negative"}
	}
	if req.CurrentStock.IsNegative() {
		return domain.ItemResponse{}, &domain.ValidationError{Field: "current_stock", Reason: "must not be negative"}
	}

	restaurantUUID, err := uuid.Parse(restaurantID)
	if err != nil {
		return domain.ItemResponse{}, domain.ErrParseUUID
	}

	if _, err := s.itemRepository.GetItemByCode(ctx, restaurantID, req.Code); err == nil {
		return domain.ItemResponse{}, &domain.ConflictError{Entity: "item", Field: "code", Value: req.Code}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ItemResponse{}, &domain.StoreError{Op: "item.create", Err: err}
	}

	item := &entities.Item{
		ID:              uuid.New(),
		RestaurantID:    restaurantUUID,
		Code:            req.Code,
		NameEn:          req.NameEn,
		NameAr:          req.NameAr,
		UnitCost:        req.UnitCost.Round(2),
		CaloriesPerUnit: req.CaloriesPerUnit.Round(2),
		CurrentStock:    req.CurrentStock.Round(3),
		Unit:            req.Unit,
		IsAvailable:     true,
	}

	if err := s.itemRepository.CreateItem(ctx, item); err != nil {
		return domain.ItemResponse{}, &domain.StoreError{Op: "item.create", Err: err}
	}

	s.invalidate(ctx, item)
	s.log.Info("item.create", item.ID.String())
	return toItemResponse(item), nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, restaurantID string) (domain.ItemResponse, error) {
	item, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	if req.NameEn != "" {
		item.NameEn = req.NameEn
	}
	if req.NameAr != "" {
		item.NameAr = req.NameAr
	}
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return domain.ItemResponse{}, &domain.ValidationError{Field: "unit_cost", Reason: "must not be negative"}
		}
		item.UnitCost = req.UnitCost.Round(2)
	}
	if req.CaloriesPerUnit != nil {
		if req.CaloriesPerUnit.IsNegative() {
			return domain.ItemResponse{}, &domain.ValidationError{Field: "calories_per_unit", Reason: "must not be negative"}
		}
		item.CaloriesPerUnit = req.CaloriesPerUnit.Round(2)
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.itemRepository.UpdateItem(ctx, item); err != nil {
		return domain.ItemResponse{}, &domain.StoreError{Op: "item.update", Err: err}
	}

	s.invalidate(ctx, item)
	s.log.Info("item.update", item.ID.String())
	return toItemResponse(item), nil
}

func (s *itemService) AdjustStock(ctx context.Context, id string, req domain.AdjustStockRequest, restaurantID string) (domain.ItemResponse, error) {
	if _, err := s.getOwned(ctx, id, restaurantID); err != nil {
		return domain.ItemResponse{}, err
	}

	item, err := s.itemRepository.AdjustStock(ctx, id, req.Delta.Round(3))
	if err != nil {
		return domain.ItemResponse{}, &domain.StoreError{Op: "item.adjust_stock", Err: err}
	}

	s.invalidate(ctx, item)
	s.log.Info("item.adjust_stock", item.ID.String())
	return toItemResponse(item), nil
}

// DeleteItem soft-deletes. An item still referenced by a live recipe line
// or meal component stays addressable and only DependencyError is returned.
func (s *itemService) DeleteItem(ctx context.Context, id string, restaurantID string) error {
	item, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return err
	}

	lineRefs, err := s.itemRepository.CountRecipeLinesForItem(ctx, id)
	if err != nil {
		return &domain.StoreError{Op: "item.delete", Err: err}
	}
	if lineRefs > 0 {
		return &domain.DependencyError{Entity: "item", ID: id, BlockedBy: "recipe lines"}
	}
	componentRefs, err := s.itemRepository.CountMealComponentsForItem(ctx, id)
	if err != nil {
		return &domain.StoreError{Op: "item.delete", Err: err}
	}
	if componentRefs > 0 {
		return &domain.DependencyError{Entity: "item", ID: id, BlockedBy: "meal components"}
	}

	if err := s.itemRepository.SoftDeleteItem(ctx, id); err != nil {
		return &domain.StoreError{Op: "item.delete", Err: err}
	}

	s.invalidate(ctx, item)
	s.log.Info("item.delete", id)
	return nil
}

func (s *itemService) GetItems(ctx context.Context, restaurantID string, available *bool, page, limit int) ([]domain.ItemResponse, int64, error) {
	items, count, err := s.itemRepository.GetItems(ctx, restaurantID, available, page, limit)
	if err != nil {
		return nil, 0, &domain.StoreError{Op: "item.list", Err: err}
	}

	result := make([]domain.ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result, count, nil
}

func (s *itemService) GetItemByID(ctx context.Context, id string, restaurantID string) (domain.ItemResponse, error) {
	key := cache.ItemDetailKey(restaurantID, id)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.ItemResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	item, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	res := toItemResponse(item)
	if raw, err := json.Marshal(res); err == nil {
		s.cache.Set(ctx, key, raw, cache.DetailTTL)
	}
	return res, nil
}

func (s *itemService) GetLowStock(ctx context.Context, restaurantID string, threshold decimal.Decimal) (domain.LowStockResponse, error) {
	key := cache.LowStockKey(restaurantID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.LowStockResponse
		if err := json.Unmarshal(raw, &cached); err == nil && cached.Threshold.Equal(threshold) {
			return cached, nil
		}
	}

	items, err := s.itemRepository.GetLowStockItems(ctx, restaurantID, threshold)
	if err != nil {
		return domain.LowStockResponse{}, &domain.StoreError{Op: "item.low_stock", Err: err}
	}

	res := domain.LowStockResponse{Threshold: threshold, Items: make([]domain.LowStockItem, 0, len(items))}
	for _, item := range items {
		blocked, err := s.itemRepository.CountRecipeLinesForItem(ctx, item.ID.String())
		if err != nil {
			return domain.LowStockResponse{}, &domain.StoreError{Op: "item.low_stock", Err: err}
		}
		res.Items = append(res.Items, domain.LowStockItem{
			ItemResponse: toItemResponse(item),
			RequiredBy:   int(blocked),
		})
	}

	if raw, err := json.Marshal(res); err == nil {
		s.cache.Set(ctx, key, raw, cache.ListTTL)
	}
	return res, nil
}

func (s *itemService) UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest, restaurantID string) (string, error) {
	item, err := s.getOwned(ctx, req.ItemID, restaurantID)
	if err != nil {
		return "", err
	}

	url, err := s.s3.UploadImage(ctx, "items", req.Image)
	if err != nil {
		return "", err
	}

	item.ImageURL = url
	if err := s.itemRepository.UpdateItem(ctx, item); err != nil {
		return "", &domain.StoreError{Op: "item.upload_image", Err: err}
	}

	s.cache.Delete(ctx, cache.ItemDetailKey(restaurantID, item.ID.String()))
	s.log.Info("item.upload_image", item.ID.String())
	return url, nil
}

func (s *itemService) getOwned(ctx context.Context, id string, restaurantID string) (*entities.Item, error) {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "item", ID: id}
		}
		return nil, &domain.StoreError{Op: "item.get", Err: err}
	}
	if item.RestaurantID.String() != restaurantID {
		return nil, &domain.NotFoundError{Entity: "item", ID: id}
	}
	return item, nil
}

// invalidate drops the item's detail key plus every aggregate that can
// contain it: stock and cost changes ripple into recipe availability and
// the active-menu summaries on their next read.
func (s *itemService) invalidate(ctx context.Context, item *entities.Item) {
	restaurantID := item.RestaurantID.String()
	s.cache.Delete(ctx,
		cache.ItemDetailKey(restaurantID, item.ID.String()),
		cache.LowStockKey(restaurantID),
		cache.RecipeStatsKey(restaurantID),
		cache.RecipeListKey(restaurantID),
		cache.ActiveMenusKey(restaurantID),
	)
}

func toItemResponse(item *entities.Item) domain.ItemResponse {
	return domain.ItemResponse{
		ID:              item.ID.String(),
		Code:            item.Code,
		NameEn:          item.NameEn,
		NameAr:          item.NameAr,
		UnitCost:        item.UnitCost,
		CaloriesPerUnit: item.CaloriesPerUnit,
		CurrentStock:    item.CurrentStock,
		Unit:            item.Unit,
		ImageURL:        item.ImageURL,
		IsAvailable:     item.IsAvailable,
	}
}
