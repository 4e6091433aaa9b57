package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cardvault/internal/errors"
	"cardvault/internal/model"
	"cardvault/internal/service"
)

// UserCardHandler handles the self-service card endpoints.
type UserCardHandler struct {
	cardService     service.CardService
	transferService service.TransferService
}

// NewUserCardHandler creates a new user card handler.
func NewUserCardHandler(cardService service.CardService, transferService service.TransferService) *UserCardHandler {
	return &UserCardHandler{
		cardService:     cardService,
		transferService: transferService,
	}
}

// TransferRequest represents a transfer between two of the caller's cards.
type TransferRequest struct {
	FromCardID string `json:"from_card_id" validate:"required,uuid"`
	ToCardID   string `json:"to_card_id" validate:"required,uuid"`
	Amount     string `json:"amount" validate:"required"`
}

// TransferResponse represents a completed transfer.
type TransferResponse struct {
	TransactionID string `json:"transaction_id"`
	FromCardID    string `json:"from_card_id"`
	ToCardID      string `json:"to_card_id"`
	Amount        string `json:"amount"`
}

// BalanceResponse represents a card balance.
type BalanceResponse struct {
	CardID  string          `json:"card_id"`
	Balance decimal.Decimal `json:"balance"`
}

// CardPage is one page of card views.
type CardPage struct {
	Cards []model.CardView `json:"cards"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Total int64            `json:"total"`
}

// TransactionPage is one page of ledger entries.
type TransactionPage struct {
	Transactions []model.Transaction `json:"transactions"`
	Page         int                 `json:"page"`
	Size         int                 `json:"size"`
	Total        int64               `json:"total"`
}

// ListCards godoc
// @Summary List the caller's cards
// @Tags user-cards
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)"
// @Param size query int false "Page size"
// @Success 200 {object} CardPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/cards [get]
func (h *UserCardHandler) ListCards(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	page, size := pageParams(c)

	cards, total, err := h.cardService.ListByOwner(c.Request().Context(), identity.UserID, page, size)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, CardPage{Cards: cards, Page: page, Size: size, Total: total})
}

// RequestBlock godoc
// @Summary Request a block on one of the caller's cards
// @Tags user-cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.CardView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/cards/{id}/block [post]
func (h *UserCardHandler) RequestBlock(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card id",
			Code:  "INVALID_UUID",
		})
	}

	view, err := h.transferService.RequestBlock(c.Request().Context(), cardID, identity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, view)
}

// Transfer godoc
// @Summary Transfer between two of the caller's cards
// @Tags user-cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransferRequest true "Transfer data"
// @Success 200 {object} TransferResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/cards/transfer [post]
func (h *UserCardHandler) Transfer(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fromCardID, err := uuid.Parse(req.FromCardID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid from_card_id",
			Code:  "INVALID_UUID",
		})
	}
	toCardID, err := uuid.Parse(req.ToCardID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid to_card_id",
			Code:  "INVALID_UUID",
		})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid amount",
			Code:  "INVALID_AMOUNT",
		})
	}

	txn, err := h.transferService.Transfer(c.Request().Context(), fromCardID, toCardID, amount, identity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, TransferResponse{
		TransactionID: txn.ID.String(),
		FromCardID:    txn.FromCardID.String(),
		ToCardID:      txn.ToCardID.String(),
		Amount:        txn.Amount.String(),
	})
}

// GetBalance godoc
// @Summary Get the balance of one of the caller's cards
// @Tags user-cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} BalanceResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/cards/{id}/balance [get]
func (h *UserCardHandler) GetBalance(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card id",
			Code:  "INVALID_UUID",
		})
	}

	balance, err := h.transferService.GetBalance(c.Request().Context(), cardID, identity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, BalanceResponse{CardID: cardID.String(), Balance: balance})
}

// ListTransactions godoc
// @Summary List ledger entries for one of the caller's cards
// @Tags user-cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Param page query int false "Page number (0-based)"
// @Param size query int false "Page size"
// @Success 200 {object} TransactionPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/cards/{id}/transactions [get]
func (h *UserCardHandler) ListTransactions(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card id",
			Code:  "INVALID_UUID",
		})
	}
	page, size := pageParams(c)

	txns, total, err := h.transferService.ListTransactions(c.Request().Context(), cardID, identity, page, size)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, TransactionPage{Transactions: txns, Page: page, Size: size, Total: total})
}
