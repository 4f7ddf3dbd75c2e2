package types

import "github.com/NicholasPiano/arktic/internal/models"

// JobFromModel converts a job model to its API shape
func JobFromModel(job *models.Job) *Job {
	if job == nil {
		return nil
	}
	return &Job{
		ID:                     job.ID,
		IDToken:                job.IDToken,
		ProjectID:              job.ProjectID,
		UserID:                 job.UserID,
		IsActive:               job.IsActive,
		ActiveUnitCount:        job.ActiveUnitCount,
		TotalTranscriptionTime: job.TotalTranscriptionTime,
		CompletedAt:            job.CompletedAt,
		CreatedAt:              job.CreatedAt,
	}
}

// UnitsFromModels converts transcription models to their API shape
func UnitsFromModels(units []models.Transcription) []Unit {
	out := make([]Unit, len(units))
	for i := range units {
		out[i] = Unit{
			ID:           units[i].ID,
			IDToken:      units[i].IDToken,
			GrammarID:    units[i].GrammarID,
			LineNumber:   units[i].LineNumber,
			AudioRef:     units[i].AudioRef,
			AudioTime:    units[i].AudioTime,
			Utterance:    units[i].Utterance,
			Value:        units[i].Value,
			CurrentValue: units[i].CurrentValue,
			IsActive:     units[i].IsActive,
		}
	}
	return out
}

// RevisionFromModel converts a revision model to its API shape
func RevisionFromModel(rev *models.Revision) *Revision {
	if rev == nil {
		return nil
	}
	return &Revision{
		ID:        rev.ID,
		IDToken:   rev.IDToken,
		UnitID:    rev.TranscriptionID,
		JobID:     rev.JobID,
		UserID:    rev.UserID,
		Utterance: rev.Utterance,
		AudioTime: rev.AudioTime,
		UpdatedAt: rev.UpdatedAt,
	}
}

// ActionFromModel converts an action model to its API shape
func ActionFromModel(action *models.Action) *Action {
	if action == nil {
		return nil
	}
	return &Action{
		ID:        action.ID,
		IDToken:   action.IDToken,
		UnitID:    action.TranscriptionID,
		JobID:     action.JobID,
		UserID:    action.UserID,
		Kind:      string(action.Kind),
		AudioTime: action.AudioTime,
	}
}

// ClientsFromModels converts client models to their API shape
func ClientsFromModels(clients []models.Client) []Client {
	out := make([]Client, len(clients))
	for i := range clients {
		out[i] = Client{ID: clients[i].ID, Name: clients[i].Name}
	}
	return out
}
