package ledger

import (
	"fmt"
	"strings"

	apperrors "contauno/internal/errors"
)

// Validate checks a transaction before it touches any store.
func Validate(t Transaction) error {
	if !t.Type.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if t.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	switch b := t.Body.(type) {
	case Standard:
		if !b.Amount.IsPositive() {
			return apperrors.ErrInvalidAmount
		}
		if strings.TrimSpace(b.Category) == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
		}
		if IsReservedCategory(b.Category) {
			return apperrors.ErrReservedCategory
		}
		if strings.TrimSpace(b.Description) == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
		}
	case Inventory:
		if len(b.Items) == 0 {
			return apperrors.ErrEmptyItems
		}
		for i, it := range b.Items {
			if it.ProductID == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("item %d: product is required", i+1))
			}
			if it.Quantity <= 0 {
				return apperrors.WithMessage(apperrors.ErrInvalidQuantity, fmt.Sprintf("item %d: quantity must be greater than zero", i+1))
			}
			if it.UnitPrice.IsNegative() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("item %d: unit price cannot be negative", i+1))
			}
		}
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction body is required")
	}
	return nil
}
