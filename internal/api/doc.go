// Package api provides read-only status projections over the job store.
// Callers polling for progress go through this package rather than touching
// job records directly.
package api
