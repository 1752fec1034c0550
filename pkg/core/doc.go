// Package core defines the shared language of the GridHub system.
//
// This package contains:
//   - Domain entities (GridRegion, GridMetrics, DataCenter, EnergyEstimate)
//   - Service interfaces (Store)
//   - Typed errors (NotFoundError) and their IsNotFound helper
//
// The Golden Rule: pkg/core imports ONLY the stdlib.
// All other packages depend on core, not the reverse.
package core
