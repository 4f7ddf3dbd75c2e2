package models

import (
	"gorm.io/gorm"
)

// Client is the top of the ownership hierarchy: a customer whose
// reference files are being transcribed. Clients own Projects; deletion
// is always an explicit manual cascade walk (see services/clients) so
// audio cleanup happens before metadata removal.
type Client struct {
	gorm.Model
	Name     string    `json:"name" gorm:"uniqueIndex;not null"`
	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:ClientID"`
}

// Project groups the grammars of one delivery for a client.
// IsActive is a pure function of the child grammars: true iff at least
// one grammar is still active (or the project is newly created with no
// grammars yet).
type Project struct {
	gorm.Model
	ClientID uint      `json:"client_id" gorm:"not null;index"`
	Name     string    `json:"name" gorm:"not null"`
	IsActive bool      `json:"is_active" gorm:"default:true"`
	Grammars []Grammar `json:"grammars,omitempty" gorm:"foreignKey:ProjectID"`
	Jobs     []Job     `json:"jobs,omitempty" gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "projects"
}
