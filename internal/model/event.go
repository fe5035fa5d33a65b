// Package model defines the study and sleep record types.
package model

import "time"

// StudyRecord is a persisted study session.
type StudyRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id" validate:"required"`
	UserName        string    `json:"user_name"`
	Date            string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string    `json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string    `json:"end_time" validate:"required,datetime=15:04"`
	DurationHours   int       `json:"duration_hours" validate:"gte=0,lte=23"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0,lte=59"`
	Discipline      string    `json:"discipline" validate:"required"`
	Performance     int       `json:"performance" validate:"oneof=0 10 20 25 30 40 45 50 60 65 70 80 90 100"`
	CreatedAt       time.Time `json:"created_at"`
}

// SleepRecord is a persisted sleep period.
type SleepRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id" validate:"required"`
	UserName        string    `json:"user_name"`
	Date            string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string    `json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string    `json:"end_time" validate:"required,datetime=15:04"`
	DurationHours   int       `json:"duration_hours" validate:"gte=0,lte=23"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0,lte=59"`
	Quality         Quality   `json:"quality" validate:"required,quality"`
	CreatedAt       time.Time `json:"created_at"`
}

// Quality is a sleep quality rating.
type Quality string

const (
	QualityVeryBad  Quality = "very_bad"
	QualityBad      Quality = "bad"
	QualityNormal   Quality = "normal"
	QualityGood     Quality = "good"
	QualityVeryGood Quality = "very_good"
)

// Qualities lists the quality levels from worst to best.
var Qualities = []Quality{
	QualityVeryBad,
	QualityBad,
	QualityNormal,
	QualityGood,
	QualityVeryGood,
}

var qualityLabels = map[Quality]string{
	QualityVeryBad:  "Very Bad",
	QualityBad:      "Bad",
	QualityNormal:   "Normal",
	QualityGood:     "Good",
	QualityVeryGood: "Very Good",
}

// Label returns the human readable name of q.
func (q Quality) Label() string {
	if l, ok := qualityLabels[q]; ok {
		return l
	}
	return string(q)
}

// Valid reports whether q is one of the known levels.
func (q Quality) Valid() bool {
	_, ok := qualityLabels[q]
	return ok
}

// Performances are the selectable study performance percentages, ascending.
var Performances = []int{0, 10, 20, 25, 30, 40, 45, 50, 60, 65, 70, 80, 90, 100}

// ValidPerformance reports whether p is a selectable percentage.
func ValidPerformance(p int) bool {
	for _, v := range Performances {
		if v == p {
			return true
		}
	}
	return false
}

// Export is the JSON document produced by export and consumed by import.
type Export struct {
	Study []StudyRecord `json:"study"`
	Sleep []SleepRecord `json:"sleep"`
}
