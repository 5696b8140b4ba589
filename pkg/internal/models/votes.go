package models

import "gorm.io/datatypes"

type Vote struct {
	BaseModel

	Meta       datatypes.JSONMap `json:"meta"`
	ChoiceID   uint              `json:"choice_id" gorm:"index"`
	QuestionID uint              `json:"question_id" gorm:"index"`
}

type QuestionResults struct {
	Question Question        `json:"question"`
	Total    int64           `json:"total"`
	Choices  []ChoiceResults `json:"choices"`
}

type ChoiceResults struct {
	ID         uint    `json:"id"`
	ChoiceText string  `json:"choice_text"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}
