package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/database"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
	"github.com/ndewijer/Personal-Hub-Backend/internal/version"
)

// SystemService reports service health and version information.
type SystemService struct {
	db       *sql.DB
	balance  *balance.Service
	features map[string]bool
}

// NewSystemService creates a new SystemService. features lists optional
// capabilities that were enabled at startup (cache backend, media storage).
func NewSystemService(db *sql.DB, balanceService *balance.Service, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		balance:  balanceService,
		features: features,
	}
}

// CheckHealth pings the database and reports the balance freshness without
// recomputing it. The returned error is the database failure, if any; the
// status is filled in either way.
func (s *SystemService) CheckHealth(ctx context.Context) (model.HealthStatus, error) {
	status := model.HealthStatus{
		Status:   "healthy",
		Database: "connected",
		Balance:  balance.FreshnessMissing.String(),
	}

	if snap, ok := s.balance.Load(ctx); ok {
		status.Balance = balance.Evaluate(snap.LastUpdated, snap.Stale, time.Now()).String()
		if !snap.LastUpdated.IsZero() {
			lastUpdated := snap.LastUpdated.UTC()
			status.BalanceUpdated = &lastUpdated
		}
	}

	if err := database.HealthCheck(s.db); err != nil {
		status.Status = "unhealthy"
		status.Database = "disconnected"
		status.Error = err.Error()
		return status, err
	}
	return status, nil
}

// CheckVersion reports the application version and whether the database schema
// is behind the embedded migrations.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	current, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	latest, err := database.LatestSchemaVersion()
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read latest schema version: %w", err)
	}

	features := make(map[string]bool, len(s.features))
	for name, enabled := range s.features {
		features[name] = enabled
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(current, 10),
		Features:        features,
		MigrationNeeded: current < latest,
	}
	if info.MigrationNeeded {
		msg := fmt.Sprintf("database schema is at version %d, latest is %d", current, latest)
		info.MigrationMessage = &msg
	}
	return info, nil
}
