package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/models"
)

// defaultCategories are created for every new user, in display order.
var defaultCategories = []struct {
	Type  models.CategoryType
	Names []string
}{
	{models.CategoryTypeIncome, []string{"Sales", "Services", "Other Income"}},
	{models.CategoryTypeExpense, []string{"Supplies", "Rent", "Utilities", "Marketing", "Other Expenses"}},
}

func seedDefaultCategories(tx *gorm.DB, userID string) error {
	var rows []models.Category
	for _, group := range defaultCategories {
		for _, name := range group.Names {
			rows = append(rows, models.Category{UserID: userID, Type: group.Type, Name: name})
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return nil
}

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

func validCategoryType(t models.CategoryType) bool {
	return t == models.CategoryTypeIncome || t == models.CategoryTypeExpense
}

func (s *categoryService) checkName(userID string, categoryType models.CategoryType, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if ledger.IsReservedCategory(name) {
		return "", apperrors.ErrReservedCategory
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND type = ? AND name = ?", userID, categoryType, name).
		Count(&count).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	if count > 0 {
		return "", apperrors.ErrDuplicateCategory
	}
	return name, nil
}

// CreateCategory adds a category to one of the user's lists.
func (s *categoryService) CreateCategory(userID string, categoryType models.CategoryType, name string) (*models.Category, error) {
	if !validCategoryType(categoryType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}
	name, err := s.checkName(userID, categoryType, name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{UserID: userID, Type: categoryType, Name: name}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return category, nil
}

// GetUserCategories lists the categories of one type in creation order.
func (s *categoryService) GetUserCategories(userID string, categoryType models.CategoryType) ([]models.Category, error) {
	if !validCategoryType(categoryType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	categories := []models.Category{}
	if err := s.db.Where("user_id = ? AND type = ?", userID, categoryType).
		Order("created_at ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return &category, nil
}

// RenameCategory renames a category and relabels the user's standard
// transactions that carry it.
func (s *categoryService) RenameCategory(userID, categoryID, name string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == category.Name {
		return category, nil
	}
	name, err = s.checkName(userID, category.Type, name)
	if err != nil {
		return nil, err
	}

	oldName := category.Name
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(category).Update("name", name).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabaseError, err)
		}
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND kind = ? AND type = ? AND category = ?",
				userID, models.TransactionKindStandard, category.Type, oldName).
			Update("category", name).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabaseError, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category no standard transaction uses.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var used int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND kind = ? AND type = ? AND category = ?",
			userID, models.TransactionKindStandard, category.Type, category.Name).
		Count(&used).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	if used > 0 {
		return apperrors.ErrCategoryInUse
	}

	// Hard delete so the name can be reused under the unique index.
	if err := s.db.Unscoped().Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return nil
}
