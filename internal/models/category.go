package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category is a user-managed label for standard transactions.
type Category struct {
	Base
	UserID string       `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_type_name,priority:1" json:"user_id"`
	Type   CategoryType `gorm:"not null;uniqueIndex:idx_categories_user_type_name,priority:2" json:"type"`
	Name   string       `gorm:"not null;uniqueIndex:idx_categories_user_type_name,priority:3" json:"name"`
}
