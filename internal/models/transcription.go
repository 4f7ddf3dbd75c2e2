package models

import (
	"time"

	"gorm.io/gorm"
)

// Transcription is one unit of work: an audio clip, its immutable
// reference utterance, and the current best correction. The
// IsActive/IsAvailable pair is the only hot shared state in the
// system; it is mutated exclusively by the allocator (claim) and the
// ledger (accept).
//
//   - IsActive=false once the unit is accepted (has at least one
//     non-empty revision).
//   - IsAvailable=false once the unit has been claimed by a job; it is
//     never reclaimed even if the job is abandoned.
type Transcription struct {
	gorm.Model
	ClientID  uint  `json:"client_id" gorm:"not null;index"`
	ProjectID uint  `json:"project_id" gorm:"not null;index:idx_transcriptions_claim"`
	GrammarID uint  `json:"grammar_id" gorm:"not null;index;uniqueIndex:idx_transcriptions_grammar_line,priority:1"`
	JobID     *uint `json:"job_id" gorm:"index"`

	IDToken string `json:"id_token" gorm:"size:8"`

	// LineNumber is the zero-based position of this unit in the source
	// relfile, unique within its grammar. Export order depends on it.
	LineNumber int `json:"line_number" gorm:"not null;uniqueIndex:idx_transcriptions_grammar_line,priority:2"`

	AudioRef  string   `json:"audio_ref" gorm:"not null"`
	AudioTime *float64 `json:"audio_time"`

	// Utterance and Value are copied from the source relfile and are
	// immutable after import; the exporter reproduces Value verbatim.
	// CurrentValue carries the latest accepted correction.
	Utterance       string  `json:"utterance"`
	Value           string  `json:"value"`
	CurrentValue    string  `json:"current_value"`
	Confidence      string  `json:"confidence"`
	ConfidenceValue float64 `json:"confidence_value"`

	IsActive        bool       `json:"is_active" gorm:"default:false;index:idx_transcriptions_claim"`
	IsAvailable     bool       `json:"is_available" gorm:"default:false;index:idx_transcriptions_claim"`
	RequestCount    int        `json:"request_count" gorm:"default:0"`
	LastRequestedAt *time.Time `json:"last_requested_at"`

	Revisions []Revision `json:"revisions,omitempty" gorm:"foreignKey:TranscriptionID"`
}

// IsClaimed reports whether the unit is attached to a job.
func (t *Transcription) IsClaimed() bool {
	return t.JobID != nil
}

// TableName specifies the table name for GORM
func (Transcription) TableName() string {
	return "transcriptions"
}
