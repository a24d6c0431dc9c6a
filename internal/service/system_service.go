package service

import (
	"database/sql"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/database"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version and which optimizer
// features this build carries.
func (s *SystemService) CheckVersion() model.VersionInfo {
	return model.VersionInfo{
		AppVersion: version.Version,
		Features: map[string]bool{
			"target_precision":  true,
			"cash_maximization": true,
			"exact_strategy":    true,
			"wash_sale_check":   true,
			"alternatives":      true,
		},
	}
}
