package models

import (
	"strings"
	"time"
)

const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// Session is one citizen conversation. AssignedDepartmentID is set once and never reassigned.
type Session struct {
	ID                   int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SessionUUID          string     `gorm:"column:session_uuid;type:uuid;uniqueIndex" json:"session_uuid"`
	UserUUID             string     `gorm:"column:user_uuid;type:uuid;index" json:"user_uuid"`
	AssignedDepartmentID *int64     `gorm:"column:assigned_department_id;index" json:"assigned_department_id,omitempty"`
	Status               string     `gorm:"column:status;type:varchar(16);default:open" json:"status"`
	CreatedAt            time.Time  `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	ClosedAt             *time.Time `gorm:"column:closed_at;type:timestamptz" json:"closed_at,omitempty"`
}

func (Session) TableName() string { return "sessions" }

type Message struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MessageUUID    string    `gorm:"column:message_uuid;type:uuid;uniqueIndex" json:"message_uuid"`
	SessionUUID    string    `gorm:"column:session_uuid;type:uuid;index" json:"session_uuid"`
	SenderType     string    `gorm:"column:sender_type;type:varchar(16);default:user" json:"sender_type"`
	SenderPlatform string    `gorm:"column:sender_platform;type:varchar(16);default:web" json:"sender_platform"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`

	Contents []MessageContent `gorm:"foreignKey:MessageUUID;references:MessageUUID" json:"contents"`
}

func (Message) TableName() string { return "messages" }

const ContentText = "text"

type MessageContent struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MessageUUID string    `gorm:"column:message_uuid;type:uuid;index" json:"message_uuid"`
	ContentType string    `gorm:"column:content_type;type:varchar(32);default:text" json:"content_type"`
	Text        *string   `gorm:"column:text;type:text" json:"text,omitempty"`
	FileURL     *string   `gorm:"column:file_url;type:text" json:"file_url,omitempty"`
	Caption     *string   `gorm:"column:caption;type:text" json:"caption,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (MessageContent) TableName() string { return "message_contents" }

// TextFragments returns the non-empty text contents in storage order.
func (m *Message) TextFragments() []string {
	var out []string
	for _, c := range m.Contents {
		if c.ContentType != ContentText || c.Text == nil {
			continue
		}
		if t := strings.TrimSpace(*c.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// AnalysisText is the space-joined text used as pipeline input.
func (m *Message) AnalysisText() string {
	return strings.Join(m.TextFragments(), " ")
}
