package models

import (
	"time"

	"gorm.io/gorm"
)

// Language of a grammar's utterances
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageSpanish Language = "spanish"
)

// Grammar is one imported transcript batch: a reference ("rel") file
// plus its paired audio clips, expanded into an ordered sequence of
// Transcriptions. The ordering key is the original line number in the
// source relfile; export must reproduce lines in that order.
type Grammar struct {
	gorm.Model
	ClientID    uint     `json:"client_id" gorm:"not null;index"`
	ProjectID   uint     `json:"project_id" gorm:"not null;index"`
	Name        string   `json:"name" gorm:"not null"`
	IDToken     string   `json:"id_token" gorm:"size:8;uniqueIndex"`
	IsActive    bool     `json:"is_active" gorm:"default:false;index"`
	IsProcessed bool     `json:"is_processed" gorm:"default:false"`
	Language    Language `json:"language" gorm:"default:'english'"`

	// CompletedAt is stamped only after a successful export. A closed
	// grammar with a nil CompletedAt is awaiting export retry.
	CompletedAt      *time.Time `json:"completed_at"`
	CompletedRelPath string     `json:"completed_rel_path,omitempty"`

	Transcriptions []Transcription `json:"transcriptions,omitempty" gorm:"foreignKey:GrammarID"`
}

// IsClosed reports whether the grammar has left the Open state: all
// units deactivated and processing finished. Closed grammars accept no
// further revisions.
func (g *Grammar) IsClosed() bool {
	return !g.IsActive && g.IsProcessed
}

// IsExported reports whether the completed relfile has been written.
func (g *Grammar) IsExported() bool {
	return g.CompletedAt != nil
}

// TableName specifies the table name for GORM
func (Grammar) TableName() string {
	return "grammars"
}
