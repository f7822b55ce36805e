package handlers

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/internal/api/presenters"
	"Mataam-Backoffice/pkg/item"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type (
	ItemHandler interface {
		CreateItem(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		AdjustStock(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		GetItems(c *fiber.Ctx) error
		GetItemDetail(c *fiber.Ctx) error
		GetLowStock(c *fiber.Ctx) error
		UploadItemImage(c *fiber.Ctx) error
	}

	itemHandler struct {
		itemService item.ItemService
		validator   *validator.Validate
	}
)

func NewItemHandler(itemService item.ItemService, validator *validator.Validate) ItemHandler {
	return &itemHandler{
		itemService: itemService,
		validator:   validator,
	}
}

func (h *itemHandler) CreateItem(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	req := new(domain.CreateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	res, err := h.itemService.CreateItem(c.Context(), *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedAddItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddItem)
}

func (h *itemHandler) UpdateItem(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	itemID := c.Params("id")
	req := new(domain.UpdateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.itemService.UpdateItem(c.Context(), itemID, *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedUpdateItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateItem)
}

func (h *itemHandler) AdjustStock(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	itemID := c.Params("id")
	req := new(domain.AdjustStockRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.itemService.AdjustStock(c.Context(), itemID, *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedAdjustStock, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAdjustStock)
}

func (h *itemHandler) DeleteItem(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	itemID := c.Params("id")

	if err := h.itemService.DeleteItem(c.Context(), itemID, restaurantID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}

func (h *itemHandler) GetItems(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)

	var available *bool
	if raw := c.Query("available"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err == nil {
			available = &parsed
		}
	}

	page, limit := pagination(c)
	items, count, err := h.itemService.GetItems(c.Context(), restaurantID, available, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items":      items,
		"pagination": paginationMeta(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) GetItemDetail(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	itemID := c.Params("id")

	res, err := h.itemService.GetItemByID(c.Context(), itemID, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetItem)
}

func (h *itemHandler) GetLowStock(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)

	threshold, err := decimal.NewFromString(c.Query("threshold", "10"))
	if err != nil || threshold.IsNegative() {
		threshold = decimal.NewFromInt(10)
	}

	res, err := h.itemService.GetLowStock(c.Context(), restaurantID, threshold)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) UploadItemImage(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)

	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.UploadItemImageRequest{
		ItemID: c.Params("id"),
		Image:  image,
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	url, err := h.itemService.UploadItemImage(c.Context(), req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"image_url": url}, fiber.StatusOK, domain.MessageSuccessUploadImage)
}

func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}

func paginationMeta(page, limit int, count int64) fiber.Map {
	return fiber.Map{
		"page":        page,
		"limit":       limit,
		"total":       count,
		"total_pages": (count + int64(limit) - 1) / int64(limit),
	}
}
