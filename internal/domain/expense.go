package domain

import "time"

type Expense struct {
	ID           string      `json:"id"`
	Amount       int64       `json:"amount"`
	Category     CategoryKey `json:"category"`
	Description  string      `json:"description"`
	Date         Date        `json:"date"`
	ReceiptImage string      `json:"receiptImage,omitempty"`
	IsRecurring  bool        `json:"isRecurring"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CreateExpenseInput is the caller-supplied part of a new expense
type CreateExpenseInput struct {
	Amount       int64
	Category     CategoryKey
	Description  string
	Date         Date
	ReceiptImage string
	IsRecurring  bool
}

// ExpensePatch holds the fields to merge into an existing expense. Nil fields are left unchanged.
type ExpensePatch struct {
	Amount       *int64
	Category     *CategoryKey
	Description  *string
	Date         *Date
	ReceiptImage *string
	IsRecurring  *bool
}

// Apply merges the non-nil fields of p into e
func (p ExpensePatch) Apply(e *Expense) {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = CleanText(*p.Description)
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.ReceiptImage != nil {
		e.ReceiptImage = *p.ReceiptImage
	}
	if p.IsRecurring != nil {
		e.IsRecurring = *p.IsRecurring
	}
}
