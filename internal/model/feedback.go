package model

import "gorm.io/datatypes"

// Feedback rows are synthesized from a fixed template at session completion.
// The readiness score is randomized in [60, 90), not computed from content.
//
// swagger:model Feedback
type Feedback struct {
	BaseModel
	SessionID      string         `gorm:"index;type:varchar(36);not null" json:"session_id"`
	AnswerID       *uint          `gorm:"index" json:"answer_id,omitempty"`
	Strengths      datatypes.JSON `gorm:"type:json" json:"strengths"`
	Improvements   datatypes.JSON `gorm:"type:json" json:"improvements"`
	Summary        string         `gorm:"type:text" json:"summary"`
	ReadinessScore int            `json:"readiness_score"`
}

func (Feedback) TableName() string {
	return "feedback"
}
