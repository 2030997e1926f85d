// Package services provides shared plumbing for the external generation
// provider clients: the sentinel error taxonomy used to classify stage
// failures, and context annotation helpers that thread job, stage, and
// request identifiers through provider calls for logging.
package services
