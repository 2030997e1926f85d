// Package engine wires the job store, pipeline dispatcher, and status
// service into a single runtime guarded by a workspace lock.
package engine
