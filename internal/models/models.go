package models

// All returns every model in migration order: parents before children
// so foreign key constraints resolve.
func All() []any {
	return []any{
		&Client{},
		&Project{},
		&Grammar{},
		&Job{},
		&Transcription{},
		&Revision{},
		&Word{},
		&Action{},
	}
}
