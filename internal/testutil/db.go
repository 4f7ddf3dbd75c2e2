package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/NicholasPiano/arktic/internal/database"
	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/pkg/token"
	"gorm.io/gorm"
)

// NewDB opens a migrated throwaway database for a test. File-backed
// rather than :memory: so every pooled connection sees the same data.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("initializing test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return conn.DB
}

// Fixture is a seeded client/project/grammar tree.
type Fixture struct {
	Client  models.Client
	Project models.Project
	Grammar models.Grammar
	Units   []models.Transcription
}

// SeedGrammar creates a client, project, and one processed active
// grammar with unitCount available units. Unit line numbers run
// [0..unitCount); reference utterances are "utterance 0", "utterance 1", …
func SeedGrammar(t *testing.T, db *gorm.DB, unitCount int) *Fixture {
	t.Helper()

	f := &Fixture{}
	f.Client = models.Client{Name: fmt.Sprintf("client-%s", token.New())}
	if err := db.Create(&f.Client).Error; err != nil {
		t.Fatalf("seeding client: %v", err)
	}

	f.Project = models.Project{ClientID: f.Client.ID, Name: "project", IsActive: true}
	if err := db.Create(&f.Project).Error; err != nil {
		t.Fatalf("seeding project: %v", err)
	}

	f.Grammar = models.Grammar{
		ClientID:    f.Client.ID,
		ProjectID:   f.Project.ID,
		Name:        "grammar",
		IDToken:     token.New(),
		IsActive:    true,
		IsProcessed: true,
	}
	if err := db.Create(&f.Grammar).Error; err != nil {
		t.Fatalf("seeding grammar: %v", err)
	}

	for i := 0; i < unitCount; i++ {
		audioTime := 2.5
		unit := models.Transcription{
			ClientID:     f.Client.ID,
			ProjectID:    f.Project.ID,
			GrammarID:    f.Grammar.ID,
			IDToken:      token.New(),
			LineNumber:   i,
			AudioRef:     fmt.Sprintf("audio/a%d.wav", i),
			AudioTime:    &audioTime,
			Utterance:    fmt.Sprintf("utterance %d", i),
			Value:        fmt.Sprintf("value %d", i),
			CurrentValue: fmt.Sprintf("value %d", i),
			IsActive:     true,
			IsAvailable:  true,
		}
		if err := db.Create(&unit).Error; err != nil {
			t.Fatalf("seeding unit %d: %v", i, err)
		}
		f.Units = append(f.Units, unit)
	}

	return f
}

// AddGrammar seeds another processed active grammar with unitCount
// available units under the fixture's project.
func AddGrammar(t *testing.T, db *gorm.DB, f *Fixture, name string, unitCount int) models.Grammar {
	t.Helper()

	grammar := models.Grammar{
		ClientID:    f.Client.ID,
		ProjectID:   f.Project.ID,
		Name:        name,
		IDToken:     token.New(),
		IsActive:    true,
		IsProcessed: true,
	}
	if err := db.Create(&grammar).Error; err != nil {
		t.Fatalf("seeding grammar %s: %v", name, err)
	}

	for i := 0; i < unitCount; i++ {
		unit := models.Transcription{
			ClientID:    f.Client.ID,
			ProjectID:   f.Project.ID,
			GrammarID:   grammar.ID,
			IDToken:     token.New(),
			LineNumber:  i,
			AudioRef:    fmt.Sprintf("audio/%s-%d.wav", name, i),
			Utterance:   fmt.Sprintf("%s utterance %d", name, i),
			IsActive:    true,
			IsAvailable: true,
		}
		if err := db.Create(&unit).Error; err != nil {
			t.Fatalf("seeding unit %d of %s: %v", i, name, err)
		}
	}

	return grammar
}
