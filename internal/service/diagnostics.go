package service

import (
	"context"
	"time"

	"github.com/deppfellow/shopbuilder/internal/repository"
	"github.com/deppfellow/shopbuilder/internal/server"
)

const (
	maxDiagnosticCollections = 10
	maxDiagnosticErrorLength = 50
)

// Diagnostic is the body of GET /test. Human-readable status strings,
// kept stable for the dashboards that scrape them.
type Diagnostic struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type DiagnosticsService struct {
	server *server.Server
	docs   repository.Documents
}

func NewDiagnosticsService(s *server.Server, docs repository.Documents) *DiagnosticsService {
	return &DiagnosticsService{
		server: s,
		docs:   docs,
	}
}

// Snapshot reports backend and storage state. Storage problems are
// reported in the body, never returned.
func (d *DiagnosticsService) Snapshot(ctx context.Context) Diagnostic {
	snapshot := Diagnostic{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if d.docs == nil {
		return snapshot
	}

	urlStatus := "❌ Not Set"
	if d.server.Config.Database.URLFromEnv {
		urlStatus = "✅ Set"
	}
	name := d.server.Config.Database.Name

	snapshot.Database = "✅ Available"
	snapshot.DatabaseURL = &urlStatus
	snapshot.DatabaseName = &name
	snapshot.ConnectionStatus = "Connected"

	timeout := 5 * time.Second
	if obs := d.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	collections, err := d.docs.Collections(ctx)
	if err != nil {
		snapshot.Database = "⚠️  Connected but Error: " + truncate(err.Error(), maxDiagnosticErrorLength)
		return snapshot
	}

	if len(collections) > maxDiagnosticCollections {
		collections = collections[:maxDiagnosticCollections]
	}
	snapshot.Collections = collections
	snapshot.Database = "✅ Connected & Working"

	return snapshot
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
