package database

import (
	"context"
	"fmt"
)

// HealthChecker for the database
type HealthChecker struct {
	manager *Manager
}

// NewHealthChecker Create database health checker
func NewHealthChecker(manager *Manager) *HealthChecker {
	return &HealthChecker{
		manager: manager,
	}
}

// Name Check item name
func (h *HealthChecker) Name() string {
	return "database"
}

// Check execution health check
func (h *HealthChecker) Check(ctx context.Context) error {
	if h.manager == nil {
		return fmt.Errorf("database manager not initialized")
	}
	return h.manager.Ping()
}
