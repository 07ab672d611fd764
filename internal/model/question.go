package model

// Question is static reference data: a prompt video plus a per-answer time
// limit, tagged with the skill tier its slug encodes.
//
// swagger:model Question
type Question struct {
	BaseModel
	Slug      string `gorm:"size:255;index;not null" json:"slug"`
	Title     string `gorm:"size:255;not null" json:"title"`
	VideoPath string `gorm:"size:512" json:"video_path"`
	TimeLimit int    `gorm:"default:90" json:"time_limit"` // Seconds, always > 0
	Skill     string `gorm:"size:50" json:"skill"`
}

func (Question) TableName() string {
	return "questions"
}
