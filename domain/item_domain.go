package domain

import (
	"mime/multipart"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessAddItem     = "item added successfully"
	MessageSuccessUpdateItem  = "item updated successfully"
	MessageSuccessDeleteItem  = "item deleted successfully"
	MessageSuccessGetItems    = "success get items"
	MessageSuccessGetItem     = "success get item detail"
	MessageSuccessAdjustStock = "stock adjusted successfully"
	MessageSuccessUploadImage = "image uploaded successfully"

	MessageFailedAddItem     = "failed to add item"
	MessageFailedUpdateItem  = "failed to update item"
	MessageFailedDeleteItem  = "failed to delete item"
	MessageFailedGetItems    = "failed to get items"
	MessageFailedGetItem     = "failed to get item detail"
	MessageFailedAdjustStock = "failed to adjust stock"
	MessageFailedUploadImage = "failed to upload image"
)

type (
	CreateItemRequest struct {
		Code            string          `json:"code" validate:"required"`
		NameEn          string          `json:"name_en" validate:"required"`
		NameAr          string          `json:"name_ar" validate:"required"`
		UnitCost        decimal.Decimal `json:"unit_cost"`
		CaloriesPerUnit decimal.Decimal `json:"calories_per_unit"`
		CurrentStock    decimal.Decimal `json:"current_stock"`
		Unit            string          `json:"unit" validate:"required"`
	}

	UpdateItemRequest struct {
		NameEn          string           `json:"name_en,omitempty"`
		NameAr          string           `json:"name_ar,omitempty"`
		UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
		CaloriesPerUnit *decimal.Decimal `json:"calories_per_unit,omitempty"`
		Unit            string           `json:"unit,omitempty"`
		IsAvailable     *bool            `json:"is_available,omitempty"`
	}

	AdjustStockRequest struct {
		Delta decimal.Decimal `json:"delta"`
	}

	UploadItemImageRequest struct {
		ItemID string                `json:"item_id" validate:"required,uuid"`
		Image  *multipart.FileHeader `json:"image" validate:"required"`
	}

	ItemResponse struct {
		ID              string          `json:"id"`
		Code            string          `json:"code"`
		NameEn          string          `json:"name_en"`
		NameAr          string          `json:"name_ar"`
		UnitCost        decimal.Decimal `json:"unit_cost"`
		CaloriesPerUnit decimal.Decimal `json:"calories_per_unit"`
		CurrentStock    decimal.Decimal `json:"current_stock"`
		Unit            string          `json:"unit"`
		ImageURL        string          `json:"image_url,omitempty"`
		IsAvailable     bool            `json:"is_available"`
	}

	LowStockItem struct {
		ItemResponse
		RequiredBy int `json:"required_by"` // number of recipes blocked by this item
	}

	LowStockResponse struct {
		Items     []LowStockItem  `json:"items"`
		Threshold decimal.Decimal `json:"threshold"`
	}
)
