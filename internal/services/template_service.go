package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/models"
)

// templateService handles saved transaction shapes.
type templateService struct {
	db *gorm.DB
}

// NewTemplateService creates a new TemplateServicer.
func NewTemplateService(db *gorm.DB) TemplateServicer {
	return &templateService{db: db}
}

func templateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "template name is required")
	}
	return name, nil
}

// CreateTemplate saves the shape of a standard transaction. The date of in
// is ignored.
func (s *templateService) CreateTemplate(userID, name string, in TransactionInput) (*models.Template, error) {
	name, err := templateName(name)
	if err != nil {
		return nil, err
	}
	if in.Inventory {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "templates only hold standard transactions")
	}
	in.Date = time.Unix(0, 0)
	t := buildTransaction(0, in)
	if err := ledger.Validate(t); err != nil {
		return nil, err
	}

	tpl := &models.Template{
		UserID:      userID,
		Name:        name,
		Type:        string(t.Type),
		Amount:      t.Amount(),
		Category:    t.Category(),
		Description: t.Description(),
		Provider:    t.Provider,
		ProviderID:  t.ProviderID,
		Notes:       t.Notes,
	}
	if err := s.db.Create(tpl).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return tpl, nil
}

// GetUserTemplates lists templates by name.
func (s *templateService) GetUserTemplates(userID string) ([]models.Template, error) {
	templates := []models.Template{}
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return templates, nil
}

// GetTemplateByID retrieves a template by ID for a specific user
func (s *templateService) GetTemplateByID(userID, templateID string) (*models.Template, error) {
	var tpl models.Template
	if err := s.db.Where("id = ? AND user_id = ?", templateID, userID).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return &tpl, nil
}

func (s *templateService) RenameTemplate(userID, templateID, name string) (*models.Template, error) {
	name, err := templateName(name)
	if err != nil {
		return nil, err
	}
	tpl, err := s.GetTemplateByID(userID, templateID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(tpl).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return tpl, nil
}

func (s *templateService) DeleteTemplate(userID, templateID string) error {
	tpl, err := s.GetTemplateByID(userID, templateID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(tpl).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return nil
}
