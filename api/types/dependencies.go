package types

import (
	"github.com/NicholasPiano/arktic/internal/database"
	"github.com/NicholasPiano/arktic/internal/services/actions"
	"github.com/NicholasPiano/arktic/internal/services/allocator"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
	"github.com/NicholasPiano/arktic/internal/services/clients"
	"github.com/NicholasPiano/arktic/internal/services/ingest"
	"github.com/NicholasPiano/arktic/internal/services/ledger"
	"github.com/NicholasPiano/arktic/internal/services/propagation"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB          *database.DB
	Allocator   allocator.Service
	Ledger      ledger.Service
	Actions     actions.Service
	Suggestions autocomplete.Service
	Propagator  propagation.Service
	Clients     clients.Service
	Ingest      ingest.Service
}
