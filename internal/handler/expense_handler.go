package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/ledger"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/service"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/websocket"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenses  *ledger.ExpenseLedger
	receipts  *service.ReceiptService
	publisher websocket.EventPublisher
	clock     domain.Clock
}

// NewExpenseHandler creates a new ExpenseHandler. A nil receipt service disables receipt uploads.
func NewExpenseHandler(expenses *ledger.ExpenseLedger, receipts *service.ReceiptService, publisher websocket.EventPublisher, clock domain.Clock) *ExpenseHandler {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	return &ExpenseHandler{
		expenses:  expenses,
		receipts:  receipts,
		publisher: publisher,
		clock:     clock,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	IsRecurring bool   `json:"isRecurring"`
}

// UpdateExpenseRequest represents the partial update expense request body
type UpdateExpenseRequest struct {
	Amount      *int64  `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	IsRecurring *bool   `json:"isRecurring,omitempty"`
}

// CreateExpense godoc
// @Summary Create an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense creation request"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	date := domain.Today(h.clock)
	if req.Date != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			return newDomainValidationError(c, err)
		}
		date = parsed
	}

	category := domain.CategoryKey(req.Category)
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = category.DisplayName()
	}

	input := domain.CreateExpenseInput{
		Amount:      req.Amount,
		Category:    category,
		Description: description,
		Date:        date,
		IsRecurring: req.IsRecurring,
	}
	if err := input.Validate(); err != nil {
		return newDomainValidationError(c, err)
	}

	expense, err := h.expenses.Add(c.Request().Context(), input)
	if err != nil {
		log.Error().Err(err).Str("expense_id", expense.ID).Msg("Failed to persist expense")
		return NewInternalError(c, "Failed to save expense")
	}

	log.Info().Str("expense_id", expense.ID).Int64("amount", expense.Amount).Str("category", string(expense.Category)).Msg("Expense created")
	h.publisher.Publish(websocket.ExpenseCreated(expense).ForMonth(expense.Date.YearMonth()))

	return c.JSON(http.StatusCreated, expense)
}

// GetExpenses godoc
// @Summary List expenses
// @Description List expenses, optionally restricted to a month and/or category
// @Tags expenses
// @Produce json
// @Param month query string false "Month (YYYY-MM)"
// @Param category query string false "Category key"
// @Success 200 {array} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	monthStr := c.QueryParam("month")
	categoryStr := c.QueryParam("category")

	var month string
	if monthStr != "" {
		parsed, err := domain.ParseMonth(monthStr)
		if err != nil {
			return newDomainValidationError(c, err)
		}
		month = parsed.YearMonth()
	}

	category := domain.CategoryKey(categoryStr)
	if categoryStr != "" && !category.IsValid() {
		return newDomainValidationError(c, domain.ErrInvalidCategory)
	}

	var expenses []domain.Expense
	switch {
	case month != "":
		expenses = h.expenses.ByMonth(month)
	case categoryStr != "":
		expenses = h.expenses.ByCategory(category)
	default:
		expenses = h.expenses.All()
	}

	if month != "" && categoryStr != "" {
		filtered := make([]domain.Expense, 0, len(expenses))
		for _, e := range expenses {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}

	return c.JSON(http.StatusOK, expenses)
}

// GetRecentExpenses godoc
// @Summary List the most recent expenses
// @Tags expenses
// @Produce json
// @Param limit query int false "Number of expenses" default(5)
// @Success 200 {array} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Router /expenses/recent [get]
func (h *ExpenseHandler) GetRecentExpenses(c echo.Context) error {
	limit := domain.DefaultRecentExpenses
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "limit", Message: "Must be a positive integer"},
			})
		}
		limit = n
	}

	return c.JSON(http.StatusOK, h.expenses.Recent(limit))
}

// GetExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	expense, ok := h.expenses.Get(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "Expense not found")
	}
	return c.JSON(http.StatusOK, expense)
}

// UpdateExpense godoc
// @Summary Update an expense
// @Description Merge the supplied fields into an existing expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id := c.Param("id")

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	patch := domain.ExpensePatch{
		Amount:      req.Amount,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
	}
	if req.Category != nil {
		category := domain.CategoryKey(*req.Category)
		patch.Category = &category
	}
	if req.Date != nil {
		date, err := domain.ParseDate(*req.Date)
		if err != nil {
			return newDomainValidationError(c, err)
		}
		patch.Date = &date
	}
	if err := patch.Validate(); err != nil {
		return newDomainValidationError(c, err)
	}

	expense, found, err := h.expenses.Update(c.Request().Context(), id, patch)
	if !found {
		return NewNotFoundError(c, "Expense not found")
	}
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("Failed to persist expense update")
		return NewInternalError(c, "Failed to save expense")
	}

	log.Info().Str("expense_id", id).Msg("Expense updated")
	h.publisher.Publish(websocket.ExpenseUpdated(expense).ForMonth(expense.Date.YearMonth()))

	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	removed, found, err := h.expenses.Delete(ctx, id)
	if !found {
		return NewNotFoundError(c, "Expense not found")
	}
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("Failed to persist expense deletion")
		return NewInternalError(c, "Failed to delete expense")
	}

	if h.receipts != nil && removed.ReceiptImage != "" {
		if err := h.receipts.Remove(ctx, removed.ReceiptImage); err != nil {
			log.Warn().Err(err).Str("expense_id", id).Msg("Failed to remove receipt of deleted expense")
		}
	}

	log.Info().Str("expense_id", id).Msg("Expense deleted")
	h.publisher.Publish(websocket.ExpenseDeleted(map[string]string{"id": id}).ForMonth(removed.Date.YearMonth()))

	return c.NoContent(http.StatusNoContent)
}

// UploadReceipt godoc
// @Summary Attach a receipt image to an expense
// @Tags expenses
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Expense ID"
// @Param file formData file true "JPEG or PNG image, at most 5MB"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /expenses/{id}/receipt [post]
func (h *ExpenseHandler) UploadReceipt(c echo.Context) error {
	if h.receipts == nil {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled")
	}

	id := c.Param("id")
	ctx := c.Request().Context()

	existing, ok := h.expenses.Get(id)
	if !ok {
		return NewNotFoundError(c, "Expense not found")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// Read one byte past the limit so oversize uploads are still rejected as too large
	data, err := io.ReadAll(io.LimitReader(src, service.MaxReceiptSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	ref, err := h.receipts.Upload(ctx, id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG"},
			})
		case errors.Is(err, service.ErrImageTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			log.Error().Err(err).Str("expense_id", id).Msg("Failed to upload receipt")
			return NewInternalError(c, "Failed to upload receipt")
		}
	}

	expense, found, err := h.expenses.Update(ctx, id, domain.ExpensePatch{ReceiptImage: &ref})
	if !found {
		// Deleted while the upload was in flight
		_ = h.receipts.Remove(ctx, ref)
		return NewNotFoundError(c, "Expense not found")
	}
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("Failed to persist receipt reference")
		return NewInternalError(c, "Failed to save expense")
	}

	if existing.ReceiptImage != "" && existing.ReceiptImage != ref {
		if err := h.receipts.Remove(ctx, existing.ReceiptImage); err != nil {
			log.Warn().Err(err).Str("expense_id", id).Msg("Failed to remove replaced receipt")
		}
	}

	log.Info().Str("expense_id", id).Str("receipt", ref).Msg("Receipt uploaded")
	h.publisher.Publish(websocket.ExpenseUpdated(expense).ForMonth(expense.Date.YearMonth()))

	return c.JSON(http.StatusOK, expense)
}

// GetReceipt godoc
// @Summary Download an expense's receipt image
// @Tags expenses
// @Produce jpeg
// @Param id path string true "Expense ID"
// @Success 200 {file} binary
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/receipt [get]
func (h *ExpenseHandler) GetReceipt(c echo.Context) error {
	if h.receipts == nil {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled")
	}

	id := c.Param("id")
	expense, ok := h.expenses.Get(id)
	if !ok {
		return NewNotFoundError(c, "Expense not found")
	}
	if !service.IsReceiptRef(expense.ReceiptImage) {
		return NewNotFoundError(c, "Expense has no stored receipt")
	}

	data, err := h.receipts.Open(c.Request().Context(), expense.ReceiptImage)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return NewNotFoundError(c, "Receipt not found")
	}
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("Failed to read receipt")
		return NewInternalError(c, "Failed to read receipt")
	}

	return c.Blob(http.StatusOK, "image/jpeg", data)
}

// DeleteReceipt godoc
// @Summary Remove an expense's receipt image
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/receipt [delete]
func (h *ExpenseHandler) DeleteReceipt(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	existing, ok := h.expenses.Get(id)
	if !ok {
		return NewNotFoundError(c, "Expense not found")
	}

	empty := ""
	expense, found, err := h.expenses.Update(ctx, id, domain.ExpensePatch{ReceiptImage: &empty})
	if !found {
		return NewNotFoundError(c, "Expense not found")
	}
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("Failed to persist receipt removal")
		return NewInternalError(c, "Failed to save expense")
	}

	if h.receipts != nil && existing.ReceiptImage != "" {
		if err := h.receipts.Remove(ctx, existing.ReceiptImage); err != nil {
			log.Warn().Err(err).Str("expense_id", id).Msg("Failed to remove receipt")
		}
	}

	log.Info().Str("expense_id", id).Msg("Receipt removed")
	h.publisher.Publish(websocket.ExpenseUpdated(expense).ForMonth(expense.Date.YearMonth()))

	return c.JSON(http.StatusOK, expense)
}
