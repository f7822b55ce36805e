package handlers

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/internal/api/presenters"
	"Mataam-Backoffice/pkg/menu"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MenuHandler interface {
		CreateMenu(c *fiber.Ctx) error
		UpdateMenu(c *fiber.Ctx) error
		DeleteMenu(c *fiber.Ctx) error
		GetMenus(c *fiber.Ctx) error
		GetMenuDetail(c *fiber.Ctx) error
		GetActiveMenus(c *fiber.Ctx) error
		AddMenuItem(c *fiber.Ctx) error
		UpdateMenuItem(c *fiber.Ctx) error
		RemoveMenuItem(c *fiber.Ctx) error
		ReorderMenuItems(c *fiber.Ctx) error
		BulkUpdateMenuItems(c *fiber.Ctx) error
		GetMenuStats(c *fiber.Ctx) error
		CreateCategory(c *fiber.Ctx) error
		GetCategories(c *fiber.Ctx) error
	}

	menuHandler struct {
		menuService menu.MenuService
		validator   *validator.Validate
	}
)

func NewMenuHandler(menuService menu.MenuService, validator *validator.Validate) MenuHandler {
	return &menuHandler{
		menuService: menuService,
		validator:   validator,
	}
}

func (h *menuHandler) CreateMenu(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	req := new(domain.CreateMenuRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMenu, err)
	}

	res, err := h.menuService.CreateMenu(c.Context(), *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedCreateMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateMenu)
}

func (h *menuHandler) UpdateMenu(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuID := c.Params("id")
	req := new(domain.UpdateMenuRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.menuService.UpdateMenu(c.Context(), menuID, *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedUpdateMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMenu)
}

func (h *menuHandler) DeleteMenu(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuID := c.Params("id")

	if err := h.menuService.DeleteMenu(c.Context(), menuID, restaurantID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedDeleteMenu, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteMenu)
}

func (h *menuHandler) GetMenus(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	page, limit := pagination(c)

	menus, count, err := h.menuService.GetMenus(c.Context(), restaurantID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetMenus, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"menus":      menus,
		"pagination": paginationMeta(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetMenus)
}

func (h *menuHandler) GetMenuDetail(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuID := c.Params("id")

	res, err := h.menuService.GetMenuByID(c.Context(), menuID, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMenu)
}

func (h *menuHandler) GetActiveMenus(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)

	res, err := h.menuService.GetActiveMenus(c.Context(), restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedActiveMenus, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessActiveMenus)
}

func (h *menuHandler) AddMenuItem(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuID := c.Params("id")
	req := new(domain.AddMenuItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMenuItem, err)
	}

	res, err := h.menuService.AddMenuItem(c.Context(), menuID, *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedAddMenuItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddMenuItem)
}

func (h *menuHandler) UpdateMenuItem(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuItemID := c.Params("itemId")
	req := new(domain.MenuItemPatch)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMenuItem, err)
	}

	res, err := h.menuService.UpdateMenuItem(c.Context(), menuItemID, *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedUpdateMenuItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMenuItem)
}

func (h *menuHandler) RemoveMenuItem(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuItemID := c.Params("itemId")

	if err := h.menuService.RemoveMenuItem(c.Context(), menuItemID, restaurantID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedRemoveMenuItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveMenuItem)
}

func (h *menuHandler) ReorderMenuItems(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuID := c.Params("id")
	req := new(domain.ReorderMenuItemsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReorderMenu, err)
	}

	if err := h.menuService.ReorderMenuItems(c.Context(), menuID, *req, restaurantID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedReorderMenu, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessReorderMenu)
}

func (h *menuHandler) BulkUpdateMenuItems(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	req := new(domain.BulkUpdateMenuItemsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBulkUpdate, err)
	}

	res, err := h.menuService.BulkUpdateMenuItems(c.Context(), *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedBulkUpdate, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessBulkUpdate)
}

func (h *menuHandler) GetMenuStats(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	menuID := c.Params("id")

	res, err := h.menuService.GetMenuStats(c.Context(), menuID, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedMenuStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMenuStats)
}

func (h *menuHandler) CreateCategory(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	req := new(domain.CreateCategoryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCategory, err)
	}

	res, err := h.menuService.CreateCategory(c.Context(), *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedCreateCategory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateCategory)
}

func (h *menuHandler) GetCategories(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)

	res, err := h.menuService.GetCategories(c.Context(), restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetCategories, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCategories)
}
