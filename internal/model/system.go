package model

import "time"

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message,omitempty"`
}

// HealthStatus reports database connectivity and the state of the balance aggregate.
// Balance is one of "fresh", "stale" or "missing"; a stale or missing balance does
// not make the service unhealthy.
type HealthStatus struct {
	Status         string     `json:"status"`
	Database       string     `json:"database"`
	Balance        string     `json:"balance"`
	BalanceUpdated *time.Time `json:"balanceUpdated,omitempty"`
	Error          string     `json:"error,omitempty"`
}
