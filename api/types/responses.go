package types

import "time"

// Status constants for API responses
const (
	StatusOK     = "ok"
	StatusError  = "error"
	StatusNoWork = "no_work"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Job is the API shape of a claimed work batch
type Job struct {
	ID                     uint       `json:"id"`
	IDToken                string     `json:"idToken"`
	ProjectID              uint       `json:"projectId"`
	UserID                 uint       `json:"userId"`
	IsActive               bool       `json:"isActive"`
	ActiveUnitCount        int        `json:"activeUnitCount"`
	TotalTranscriptionTime float64    `json:"totalTranscriptionTime"`
	CompletedAt            *time.Time `json:"completedAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// Unit is the API shape of one transcription inside a job
type Unit struct {
	ID           uint     `json:"id"`
	IDToken      string   `json:"idToken"`
	GrammarID    uint     `json:"grammarId"`
	LineNumber   int      `json:"lineNumber"`
	AudioRef     string   `json:"audioRef"`
	AudioTime    *float64 `json:"audioTime,omitempty"`
	Utterance    string   `json:"utterance"`
	Value        string   `json:"value"`
	CurrentValue string   `json:"currentValue"`
	IsActive     bool     `json:"isActive"`
}

// Revision is the API shape of a stored worker edit
type Revision struct {
	ID        uint      `json:"id"`
	IDToken   string    `json:"idToken"`
	UnitID    uint      `json:"unitId"`
	JobID     uint      `json:"jobId"`
	UserID    uint      `json:"userId"`
	Utterance string    `json:"utterance"`
	AudioTime *float64  `json:"audioTime,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Action is the API shape of a recorded telemetry event
type Action struct {
	ID        uint     `json:"id"`
	IDToken   string   `json:"idToken"`
	UnitID    uint     `json:"unitId"`
	JobID     uint     `json:"jobId"`
	UserID    uint     `json:"userId"`
	Kind      string   `json:"kind"`
	AudioTime *float64 `json:"audioTime,omitempty"`
}

// JobResponse for the allocation endpoint
type JobResponse struct {
	BaseResponse
	Job *Job `json:"job,omitempty"`
}

// UnitsResponse for a job's unit listing
type UnitsResponse struct {
	BaseResponse
	Units []Unit `json:"units"`
	Count int    `json:"count"`
}

// RevisionResponse for the submission endpoint
type RevisionResponse struct {
	BaseResponse
	Revision *Revision `json:"revision"`
	// UnitAccepted reports whether the unit is done after this edit.
	UnitAccepted bool `json:"unitAccepted"`
}

// ActionResponse for the telemetry endpoint
type ActionResponse struct {
	BaseResponse
	Action *Action `json:"action"`
}

// SuggestionsResponse for the word index endpoint
type SuggestionsResponse struct {
	BaseResponse
	Mode        string   `json:"mode"`
	Suggestions []string `json:"suggestions"`
	Count       int      `json:"count"`
}

// GrammarResponse for the ingestion endpoint
type GrammarResponse struct {
	BaseResponse
	GrammarID uint   `json:"grammarId"`
	IDToken   string `json:"idToken"`
	Name      string `json:"name"`
	UnitCount int    `json:"unitCount"`
}

// ClientsResponse for the admin client listing
type ClientsResponse struct {
	BaseResponse
	Clients []Client `json:"clients"`
	Count   int      `json:"count"`
}

// Client is the API shape of a client account
type Client struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
