package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type InjectResult struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MessageUUID    string         `gorm:"column:message_uuid;type:uuid;index" json:"message_uuid"`
	IsInjection    bool           `gorm:"column:is_injection" json:"is_injection"`
	InjectionScore *float64       `gorm:"column:injection_score" json:"injection_score,omitempty"`
	Details        datatypes.JSON `gorm:"column:details;type:jsonb" json:"details"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (InjectResult) TableName() string { return "inject_results" }

const (
	ResolutionNone       = "none"       // reasoner suggested no department id
	ResolutionResolved   = "resolved"   // suggestion maps to a live department
	ResolutionUnresolved = "unresolved" // suggestion kept verbatim, no live department behind it
)

// AIResult is the immutable decision trail of one pipeline run.
// Classification columns stay NULL for injection and unsupported-language runs.
type AIResult struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SessionUUID string `gorm:"column:session_uuid;type:uuid;index" json:"session_uuid"`
	MessageUUID string `gorm:"column:message_uuid;type:uuid;index" json:"message_uuid"`

	IsInjection bool   `gorm:"column:is_injection" json:"is_injection"`
	Language    string `gorm:"column:language;type:varchar(16)" json:"language"`

	MessageType       *string  `gorm:"column:message_type;type:varchar(64)" json:"message_type"`
	RoutingConfidence *float64 `gorm:"column:routing_confidence" json:"routing_confidence"`

	SuggestedDepartmentName *string `gorm:"column:suggested_department_name;type:varchar(255)" json:"suggested_department_name"`
	SuggestedDepartmentID   *int64  `gorm:"column:suggested_department_id;index" json:"suggested_department_id"`
	ResolvedDepartmentID    *int64  `gorm:"column:resolved_department_id;index" json:"resolved_department_id"`
	DepartmentResolution    string  `gorm:"column:department_resolution;type:varchar(16)" json:"department_resolution"`

	Reason      *string `gorm:"column:reason;type:text" json:"reason"`
	Explanation *string `gorm:"column:explanation;type:text" json:"explanation"`

	VectorSimilarityScore float64          `gorm:"column:vector_similarity_score" json:"vector_similarity_score"`
	VectorTopCandidates   datatypes.JSON   `gorm:"column:vector_top_candidates;type:jsonb" json:"vector_top_candidates"`
	MessageRawEmbedding   *pgvector.Vector `gorm:"column:message_raw_embedding;type:vector(768)" json:"-"`

	// operator correction overlay, never written by the pipeline
	CorrectedByOperator             bool    `gorm:"column:corrected_by_operator;default:false" json:"corrected_by_operator"`
	OperatorUUID                    *string `gorm:"column:operator_uuid;type:uuid;index" json:"operator_uuid,omitempty"`
	OperatorCorrectedDepartmentID   *int64  `gorm:"column:operator_corrected_department_id" json:"operator_corrected_department_id,omitempty"`
	OperatorCorrectedDepartmentName *string `gorm:"column:operator_corrected_department_name;type:varchar(255)" json:"operator_corrected_department_name,omitempty"`

	AIProcessedAt     time.Time `gorm:"column:ai_processed_at;type:timestamptz" json:"ai_processed_at"`
	ProcessDurationMS int64     `gorm:"column:process_duration_ms" json:"process_duration_ms"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (AIResult) TableName() string { return "ai_results" }

// DepartmentEmbedding is one vector index entry per (department, language).
type DepartmentEmbedding struct {
	ID           string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DepartmentID int64           `gorm:"column:department_id;index" json:"department_id"`
	Lang         string          `gorm:"column:lang;type:varchar(8);index" json:"lang"`
	Name         string          `gorm:"column:name;type:text" json:"name"`
	Description  string          `gorm:"column:description;type:text" json:"description"`
	Keywords     string          `gorm:"column:keywords;type:text" json:"keywords"`
	Embedding    pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"-"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (DepartmentEmbedding) TableName() string { return "department_embeddings" }
