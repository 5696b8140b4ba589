package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultRecentWindow is how far back a question still counts as recently published.
var DefaultRecentWindow = 24 * time.Hour

type Question struct {
	BaseModel

	QuestionText string    `json:"question_text"`
	PubDate      time.Time `json:"pub_date" gorm:"index"`
	Language     string    `json:"language"`

	Choices []Choice `json:"choices,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (v *Question) BeforeSave(tx *gorm.DB) error {
	v.PubDate = v.PubDate.UTC()
	return nil
}

func (v Question) WasPublishedRecently(now time.Time) bool {
	return WasPublishedRecently(v.PubDate, now, DefaultRecentWindow)
}

func (v Question) IsPublished(now time.Time) bool {
	return IsPublished(v.PubDate, now)
}

type Choice struct {
	BaseModel

	ChoiceText string `json:"choice_text"`
	Votes      int64  `json:"votes" gorm:"not null;default:0"`
	QuestionID uint   `json:"question_id" gorm:"index"`
}

// IsPublished reports whether pubDate is not in the future relative to now.
func IsPublished(pubDate, now time.Time) bool {
	return !pubDate.After(now)
}

// WasPublishedRecently reports whether pubDate lies in [now - window, now].
func WasPublishedRecently(pubDate, now time.Time, window time.Duration) bool {
	if pubDate.After(now) {
		return false
	}
	return !pubDate.Before(now.Add(-window))
}
