package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type Department struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`

	NameUz        string         `gorm:"column:name_uz;type:varchar(500)" json:"name_uz"`
	NameRu        string         `gorm:"column:name_ru;type:varchar(500)" json:"name_ru"`
	DescriptionUz string         `gorm:"column:description_uz;type:text" json:"description_uz"`
	DescriptionRu string         `gorm:"column:description_ru;type:text" json:"description_ru"`
	KeywordsUz    pq.StringArray `gorm:"column:keywords_uz;type:text[]" json:"keywords_uz"`
	KeywordsRu    pq.StringArray `gorm:"column:keywords_ru;type:text[]" json:"keywords_ru"`

	IsActive  bool       `gorm:"column:is_active;default:true" json:"is_active"`
	IsDeleted bool       `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	DeletedAt *time.Time `gorm:"column:deleted_at;type:timestamptz" json:"deleted_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Department) TableName() string { return "departments" }

// Live reports whether the department can receive routed messages.
func (d *Department) Live() bool { return d != nil && d.IsActive && !d.IsDeleted }

// DisplayName prefers the Uzbek name and falls back to Russian.
func (d *Department) DisplayName() string {
	if n := strings.TrimSpace(d.NameUz); n != "" {
		return n
	}
	return strings.TrimSpace(d.NameRu)
}

// Localized returns name, description and keywords for lang ("uz" or "ru").
func (d *Department) Localized(lang string) (name, description string, keywords []string) {
	if lang == "ru" {
		return d.NameRu, d.DescriptionRu, d.KeywordsRu
	}
	return d.NameUz, d.DescriptionUz, d.KeywordsUz
}

// Admin is a department operator. Platform accounts hang off AdminUUID.
type Admin struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AdminUUID    string `gorm:"column:admin_uuid;type:uuid;uniqueIndex" json:"admin_uuid"`
	FullName     string `gorm:"column:full_name;type:varchar(128)" json:"full_name"`
	DepartmentID *int64 `gorm:"column:department_id;index" json:"department_id,omitempty"`
	Role         string `gorm:"column:role;type:varchar(64);default:operator" json:"role"`

	IsBlocked bool `gorm:"column:is_blocked;default:false" json:"is_blocked"`
	IsDeleted bool `gorm:"column:is_deleted;default:false" json:"is_deleted"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Admin) TableName() string { return "admins" }

type TelegramAdmin struct {
	ID                 int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AdminUUID          string `gorm:"column:admin_uuid;type:uuid;index" json:"admin_uuid"`
	TelegramChatID     int64  `gorm:"column:telegram_chat_id;uniqueIndex" json:"telegram_chat_id"`
	Username           string `gorm:"column:username;type:varchar(128)" json:"username"`
	LanguagePreference string `gorm:"column:language_preference;type:varchar(2);default:uz" json:"language_preference"`
}

func (TelegramAdmin) TableName() string { return "telegram_admins" }
