package ports

import "go.trai.ch/seek/internal/core/domain"

// ConfigLoader defines the interface for loading the discovery configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the configuration for root. An explicit path overrides the
	// default file location; a missing default file yields the defaults.
	Load(root, path string) (domain.Config, error)
}
