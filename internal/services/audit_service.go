package services

import (
	"encoding/base64"
	"encoding/json"

	"github.com/klauspost/compress/zstd"
	"gorm.io/gorm"

	"contauno/internal/logger"
	"contauno/internal/models"
)

// auditCompressThreshold is the payload size above which changes are stored
// zstd-compressed.
const auditCompressThreshold = 1024

// auditService handles audit log recording.
type auditService struct {
	db      *gorm.DB
	encoder *zstd.Encoder
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	// A nil writer is valid for EncodeAll-only use and never fails.
	encoder, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return &auditService{db: db, encoder: encoder}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	compressed := false
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			data = []byte("{}")
		}
		if len(data) > auditCompressThreshold {
			data = []byte(base64.StdEncoding.EncodeToString(s.encoder.EncodeAll(data, nil)))
			compressed = true
		}
		changesJSON = string(data)
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
		Compressed:   compressed,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// DecodeAuditChanges returns the JSON payload of an entry, decompressing it
// when needed.
func DecodeAuditChanges(entry models.AuditLog) ([]byte, error) {
	if !entry.Compressed {
		return []byte(entry.Changes), nil
	}
	raw, err := base64.StdEncoding.DecodeString(entry.Changes)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return decoder.DecodeAll(raw, nil)
}
