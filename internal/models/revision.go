package models

import (
	"strings"

	"gorm.io/gorm"
)

// Revision is one worker's stored edit of a transcription within one
// job. There is at most one revision per (transcription, job, user)
// triple, updated in place on resubmission; the fine-grained
// append-only event log lives in Action instead.
//
// The authoritative current value of a unit is its latest revision by
// UpdatedAt across all users and jobs.
type Revision struct {
	gorm.Model
	TranscriptionID uint `json:"transcription_id" gorm:"not null;uniqueIndex:idx_revisions_attempt,priority:1"`
	JobID           uint `json:"job_id" gorm:"not null;uniqueIndex:idx_revisions_attempt,priority:2"`
	UserID          uint `json:"user_id" gorm:"not null;uniqueIndex:idx_revisions_attempt,priority:3"`

	IDToken   string   `json:"id_token" gorm:"size:8"`
	Utterance string   `json:"utterance"`
	AudioTime *float64 `json:"audio_time"`

	// Derived from the action sequence, not set by the submitter.
	TimeToComplete *float64 `json:"time_to_complete"`
	NumberOfPlays  int      `json:"number_of_plays" gorm:"default:0"`
}

// IsEmpty reports whether the revision carries no usable text after
// whitespace normalization.
func (r *Revision) IsEmpty() bool {
	return strings.TrimSpace(r.Utterance) == ""
}

// TableName specifies the table name for GORM
func (Revision) TableName() string {
	return "revisions"
}
