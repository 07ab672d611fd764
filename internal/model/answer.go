package model

// Answer records one uploaded response. Nothing enforces uniqueness per
// (session, question); recording twice keeps every row.
//
// swagger:model Answer
type Answer struct {
	BaseModel
	SessionID  string `gorm:"index;type:varchar(36);not null" json:"session_id"`
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	VideoPath  string `gorm:"size:512;not null" json:"video_path"`
	Duration   int    `gorm:"default:0" json:"duration"` // Seconds, >= 0
}

func (Answer) TableName() string {
	return "answers"
}
