package handlers

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/internal/api/presenters"
	"Mataam-Backoffice/pkg/meal"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MealHandler interface {
		CreateMeal(c *fiber.Ctx) error
		UpdateMeal(c *fiber.Ctx) error
		DeleteMeal(c *fiber.Ctx) error
		GetMeals(c *fiber.Ctx) error
		GetMealDetail(c *fiber.Ctx) error
		ComputeCosts(c *fiber.Ctx) error
	}

	mealHandler struct {
		mealService meal.MealService
		validator   *validator.Validate
	}
)

func NewMealHandler(mealService meal.MealService, validator *validator.Validate) MealHandler {
	return &mealHandler{
		mealService: mealService,
		validator:   validator,
	}
}

func (h *mealHandler) CreateMeal(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	req := new(domain.CreateMealRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMeal, err)
	}

	res, err := h.mealService.CreateMeal(c.Context(), *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedCreateMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateMeal)
}

func (h *mealHandler) UpdateMeal(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	mealID := c.Params("id")
	req := new(domain.UpdateMealRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}

	res, err := h.mealService.UpdateMeal(c.Context(), mealID, *req, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedUpdateMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMeal)
}

func (h *mealHandler) DeleteMeal(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	mealID := c.Params("id")

	if err := h.mealService.DeleteMeal(c.Context(), mealID, restaurantID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedDeleteMeal, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteMeal)
}

func (h *mealHandler) GetMeals(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	page, limit := pagination(c)

	meals, count, err := h.mealService.GetMeals(c.Context(), restaurantID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetMeals, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"meals":      meals,
		"pagination": paginationMeta(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetMeals)
}

func (h *mealHandler) GetMealDetail(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	mealID := c.Params("id")

	res, err := h.mealService.GetMealByID(c.Context(), mealID, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMeal)
}

func (h *mealHandler) ComputeCosts(c *fiber.Ctx) error {
	restaurantID := c.Locals("restaurant_id").(string)
	req := new(struct {
		Components []domain.MealComponentRequest `json:"components" validate:"required,min=1,dive"`
	})

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMeal, err)
	}

	res, err := h.mealService.ComputeCosts(c.Context(), req.Components, restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMeal)
}
