package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cardvault/internal/errors"
	"cardvault/internal/model"
	"cardvault/internal/service"
)

// AdminCardHandler handles the administrative card endpoints. Route access
// is fenced by the ADMIN role middleware; no ownership checks apply here.
type AdminCardHandler struct {
	cardService service.CardService
}

// NewAdminCardHandler creates a new admin card handler.
func NewAdminCardHandler(cardService service.CardService) *AdminCardHandler {
	return &AdminCardHandler{cardService: cardService}
}

// CreateCardRequest represents an administrative card creation.
type CreateCardRequest struct {
	Number     string `json:"number" validate:"required,len=16,numeric"`
	OwnerID    string `json:"owner_id" validate:"required,uuid"`
	ExpiryDate string `json:"expiry_date" validate:"required"` // YYYY-MM-DD
	Balance    string `json:"balance"`
}

// UpdateCardRequest represents a partial card update. Omitted fields are
// left unchanged.
type UpdateCardRequest struct {
	Number     *string `json:"number" validate:"omitempty,len=16,numeric"`
	ExpiryDate *string `json:"expiry_date"` // YYYY-MM-DD
	Balance    *string `json:"balance"`
}

// ListCards godoc
// @Summary List all cards
// @Tags admin-cards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CardView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/cards [get]
func (h *AdminCardHandler) ListCards(c echo.Context) error {
	cards, err := h.cardService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, cards)
}

// GetCard godoc
// @Summary Get a card by id
// @Tags admin-cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.CardView
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/cards/{id} [get]
func (h *AdminCardHandler) GetCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card id",
			Code:  "INVALID_UUID",
		})
	}

	view, err := h.cardService.GetByID(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, view)
}

// CreateCard godoc
// @Summary Create a card
// @Tags admin-cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCardRequest true "Card data"
// @Success 201 {object} model.CardView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/cards [post]
func (h *AdminCardHandler) CreateCard(c echo.Context) error {
	var req CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid owner_id",
			Code:  "INVALID_UUID",
		})
	}
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid expiry_date, expected YYYY-MM-DD",
			Code:  "INVALID_DATE",
		})
	}

	balance := decimal.Zero
	if req.Balance != "" {
		balance, err = decimal.NewFromString(req.Balance)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid balance",
				Code:  "INVALID_AMOUNT",
			})
		}
	}

	view, err := h.cardService.Create(c.Request().Context(), service.CreateCardInput{
		Number:     req.Number,
		OwnerID:    ownerID,
		ExpiryDate: expiry,
		Balance:    balance,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, view)
}

// UpdateCard godoc
// @Summary Update a card by id
// @Tags admin-cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Param request body UpdateCardRequest true "Fields to update"
// @Success 200 {object} model.CardView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/cards/{id} [patch]
func (h *AdminCardHandler) UpdateCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card id",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.UpdateCardInput{Number: req.Number}
	if req.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid expiry_date, expected YYYY-MM-DD",
				Code:  "INVALID_DATE",
			})
		}
		in.ExpiryDate = &expiry
	}
	if req.Balance != nil {
		balance, err := decimal.NewFromString(*req.Balance)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid balance",
				Code:  "INVALID_AMOUNT",
			})
		}
		in.Balance = &balance
	}

	view, err := h.cardService.Update(c.Request().Context(), id, in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, view)
}

// DeleteCard godoc
// @Summary Delete a card by id
// @Tags admin-cards
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/cards/{id} [delete]
func (h *AdminCardHandler) DeleteCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card id",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.cardService.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// BlockCard godoc
// @Summary Block a card by id
// @Tags admin-cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.CardView
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/cards/{id}/block [patch]
func (h *AdminCardHandler) BlockCard(c echo.Context) error {
	return h.changeStatus(c, h.cardService.Block)
}

// ActivateCard godoc
// @Summary Activate a card by id
// @Tags admin-cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.CardView
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/cards/{id}/activate [patch]
func (h *AdminCardHandler) ActivateCard(c echo.Context) error {
	return h.changeStatus(c, h.cardService.Activate)
}

func (h *AdminCardHandler) changeStatus(c echo.Context, apply func(ctx context.Context, id uuid.UUID) (*model.CardView, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card id",
			Code:  "INVALID_UUID",
		})
	}

	view, err := apply(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, view)
}
