package model

import "time"

// swagger:model InterviewSession
type InterviewSession struct {
	UUIDBase
	Name        string     `gorm:"size:255" json:"name"`
	Email       string     `gorm:"size:255" json:"email"`
	Skill       string     `gorm:"size:50;default:'Beginner'" json:"skill"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (InterviewSession) TableName() string {
	return "sessions"
}
