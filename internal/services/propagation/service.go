package propagation

import (
	"context"
	"log"

	"github.com/NicholasPiano/arktic/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	exporter   Exporter
}

// NewService creates a new propagation service
func NewService(repository Repository, exporter Exporter) Service {
	return &ServiceImpl{
		repository: repository,
		exporter:   exporter,
	}
}

// OnRevisionCommitted walks the hierarchy bottom-up: grammar, then the
// unit's job, then project, then client. Each step recomputes its flag
// from direct children only.
func (s *ServiceImpl) OnRevisionCommitted(ctx context.Context, unitID uint) error {
	unit, err := s.repository.GetUnit(ctx, unitID)
	if err != nil {
		return err
	}

	if err := s.refreshGrammar(ctx, unit.GrammarID); err != nil {
		return err
	}

	if unit.JobID != nil {
		if err := s.refreshJob(ctx, *unit.JobID); err != nil {
			return err
		}
	}

	if err := s.refreshProject(ctx, unit.ProjectID); err != nil {
		return err
	}

	return s.refreshClient(ctx, unit.ClientID)
}

// RetryPendingExports re-attempts export for closed, unexported grammars
func (s *ServiceImpl) RetryPendingExports(ctx context.Context) (int, error) {
	grammars, err := s.repository.GrammarsAwaitingExport(ctx)
	if err != nil {
		return 0, err
	}

	exported := 0
	for i := range grammars {
		if s.export(ctx, &grammars[i]) {
			exported++
		}
	}
	return exported, nil
}

func (s *ServiceImpl) refreshGrammar(ctx context.Context, grammarID uint) error {
	grammar, err := s.repository.GetGrammar(ctx, grammarID)
	if err != nil {
		return err
	}

	activeUnits, err := s.repository.CountActiveUnits(ctx, grammarID)
	if err != nil {
		return err
	}

	active := activeUnits > 0
	if active != grammar.IsActive {
		if err := s.repository.SetGrammarActive(ctx, grammarID, active); err != nil {
			return err
		}
		grammar.IsActive = active
	}

	if grammar.IsClosed() && !grammar.IsExported() {
		// Export failures are logged and retried later; the revision
		// that closed the grammar stays durable either way.
		s.export(ctx, grammar)
	}
	return nil
}

func (s *ServiceImpl) export(ctx context.Context, grammar *models.Grammar) bool {
	path, err := s.exporter.ExportGrammar(ctx, grammar.ID)
	if err != nil {
		log.Printf("export of grammar %d (%s) failed, will retry: %v", grammar.ID, grammar.Name, err)
		return false
	}

	won, err := s.repository.MarkExported(ctx, grammar.ID, path)
	if err != nil {
		log.Printf("recording export of grammar %d failed: %v", grammar.ID, err)
		return false
	}
	if !won {
		// another pass exported first
		return false
	}
	log.Printf("grammar %d (%s) exported to %s", grammar.ID, grammar.Name, path)
	return true
}

func (s *ServiceImpl) refreshJob(ctx context.Context, jobID uint) error {
	job, err := s.repository.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	activeUnits, err := s.repository.CountActiveUnitsInJob(ctx, jobID)
	if err != nil {
		return err
	}

	return s.repository.UpdateJobCompletion(ctx, job, int(activeUnits))
}

func (s *ServiceImpl) refreshProject(ctx context.Context, projectID uint) error {
	project, err := s.repository.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	activeGrammars, err := s.repository.CountActiveGrammars(ctx, projectID)
	if err != nil {
		return err
	}

	active := activeGrammars > 0
	if active != project.IsActive {
		if err := s.repository.SetProjectActive(ctx, projectID, active); err != nil {
			return err
		}
	}
	return nil
}

// refreshClient is the top of the walk. Clients carry no completion
// flag of their own; a fully inactive client is only worth noting.
func (s *ServiceImpl) refreshClient(ctx context.Context, clientID uint) error {
	activeProjects, err := s.repository.CountActiveProjects(ctx, clientID)
	if err != nil {
		return err
	}
	if activeProjects == 0 {
		log.Printf("client %d has no remaining active projects", clientID)
	}
	return nil
}
