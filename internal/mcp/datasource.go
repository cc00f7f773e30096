package mcp

import (
	"context"
	"encoding/json"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. The live session is
// owned by the server process, so the only implementation is HTTPClient,
// which calls the liftlog REST API (typically over Tailscale).
type DataSource interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetActiveSession(ctx context.Context) (json.RawMessage, error)
	QueryTrainingRecords(ctx context.Context, start, end string) ([]models.TrainingRecordRow, error)
	GetWeeklyVolume(ctx context.Context, start, end string) ([]storage.VolumePeriod, error)
	QueryWeightEntries(ctx context.Context, start, end string) ([]models.WeightEntryRow, error)
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)
