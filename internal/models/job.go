package models

import (
	"time"

	"gorm.io/gorm"
)

// Job is a bounded batch of transcriptions claimed by one worker for
// one sitting. Units are assigned, not owned: deleting a job must not
// delete its transcriptions.
type Job struct {
	gorm.Model
	ClientID  uint `json:"client_id" gorm:"not null;index"`
	ProjectID uint `json:"project_id" gorm:"not null;index"`
	UserID    uint `json:"user_id" gorm:"not null;index"`

	IDToken string `json:"id_token" gorm:"size:8;uniqueIndex"`

	IsActive bool `json:"is_active" gorm:"default:true;index"`

	// ActiveUnitCount is the number of assigned units still active.
	// The job completes when it reaches zero.
	ActiveUnitCount int `json:"active_unit_count" gorm:"default:0"`

	// TotalTranscriptionTime is the summed audio duration of the
	// assigned units, in seconds.
	TotalTranscriptionTime float64 `json:"total_transcription_time" gorm:"default:0"`

	// TimeTaken is the wall-clock seconds from creation to completion.
	TimeTaken float64 `json:"time_taken" gorm:"default:0"`

	CompletedAt *time.Time `json:"completed_at"`

	Transcriptions []Transcription `json:"transcriptions,omitempty" gorm:"foreignKey:JobID"`
}

// IsComplete reports whether every assigned unit has been accepted.
func (j *Job) IsComplete() bool {
	return !j.IsActive && j.CompletedAt != nil
}

// TableName specifies the table name for GORM
func (Job) TableName() string {
	return "jobs"
}
