package models

// AuditLog records mutating user operations.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	// Changes holds JSON, or base64 zstd-compressed JSON when Compressed is set.
	Changes    string `json:"changes,omitempty"`
	Compressed bool   `gorm:"not null;default:false" json:"compressed"`
}
