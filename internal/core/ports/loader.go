package ports

import (
	"context"

	"go.trai.ch/seek/internal/core/domain"
)

// ModuleLoader loads candidates and checks them structurally against a signature.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type ModuleLoader interface {
	// Load returns a handle for the candidate, reusing a registered handle
	// when the file has not changed.
	Load(ctx context.Context, candidate *domain.Candidate) (*domain.ModuleHandle, error)

	// Validate reports the best export of handle satisfying sig and its bonus.
	// The boolean is false when nothing matches; Validation.Reason says why.
	Validate(handle *domain.ModuleHandle, sig domain.Signature) (domain.Validation, bool)

	// Reset drops every registered handle.
	Reset()
}
