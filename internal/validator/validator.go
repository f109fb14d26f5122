// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"contauno/internal/ledger"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("date_key", validateDateKey)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return ledger.Type(fl.Field().String()).Valid()
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

// validateDateKey accepts calendar days written as YYYY-MM-DD.
func validateDateKey(fl validator.FieldLevel) bool {
	_, err := ledger.ParseDate(fl.Field().String())
	return err == nil
}
