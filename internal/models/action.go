package models

import (
	"gorm.io/gorm"
)

// ActionKind enumerates the telemetry events a worker's UI can emit.
type ActionKind string

const (
	ActionEndedAudio ActionKind = "ended_audio"
	ActionReplay     ActionKind = "replay"
	ActionPlayPause  ActionKind = "play_pause"
	ActionAddWord    ActionKind = "add_word"
	ActionCopyDown   ActionKind = "copy_down"
	ActionTick       ActionKind = "tick"
)

// Valid reports whether k is one of the known action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionEndedAudio, ActionReplay, ActionPlayPause, ActionAddWord, ActionCopyDown, ActionTick:
		return true
	}
	return false
}

// Action is one immutable telemetry event recorded while a worker
// edits a transcription. Actions are append-only and never updated;
// revision aggregates (number of plays, time to complete) are derived
// from the per-unit action sequence.
type Action struct {
	gorm.Model
	JobID           uint  `json:"job_id" gorm:"not null;index"`
	UserID          uint  `json:"user_id" gorm:"not null;index"`
	TranscriptionID uint  `json:"transcription_id" gorm:"not null;index:idx_actions_sequence,priority:1"`
	RevisionID      *uint `json:"revision_id" gorm:"index"`

	IDToken   string     `json:"id_token" gorm:"size:8"`
	Kind      ActionKind `json:"kind" gorm:"not null;index:idx_actions_sequence,priority:2"`
	AudioTime *float64   `json:"audio_time"`
}

// TableName specifies the table name for GORM
func (Action) TableName() string {
	return "actions"
}
