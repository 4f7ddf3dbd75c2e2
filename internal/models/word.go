package models

import (
	"gorm.io/gorm"
)

// Word is one token of an utterance, recorded for the autocomplete
// index. IsUnique is computed once at insertion time: true iff no
// prior word with identical content existed for the (client, project)
// pair. The flag is never re-evaluated, so the suggestion index is
// insertion-order dependent and only grows.
//
// Words derived from a revision carry RevisionID so they can be
// dropped and rebuilt when the revision text changes; words derived
// from reference utterances at import carry TranscriptionID only.
type Word struct {
	gorm.Model
	ClientID        uint  `json:"client_id" gorm:"not null;index:idx_words_lookup,priority:1"`
	ProjectID       uint  `json:"project_id" gorm:"not null;index:idx_words_lookup,priority:2"`
	GrammarID       uint  `json:"grammar_id" gorm:"not null;index"`
	TranscriptionID *uint `json:"transcription_id" gorm:"index"`
	RevisionID      *uint `json:"revision_id" gorm:"index"`

	Content  string `json:"content" gorm:"not null;index:idx_words_lookup,priority:3"`
	IsUnique bool   `json:"is_unique" gorm:"default:false"`
	IsTag    bool   `json:"is_tag" gorm:"default:false"`
}

// TableName specifies the table name for GORM
func (Word) TableName() string {
	return "words"
}
