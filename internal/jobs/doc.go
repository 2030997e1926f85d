// Package jobs defines the job record that accumulates pipeline output and
// the concurrency-safe in-memory store that shares it between the pipeline
// writer and concurrent status readers.
//
// Each job is mutated by exactly one pipeline goroutine; the store's job is
// to make creation, lookup, and snapshotting safe, and to hand readers deep
// copies so they never observe a half-written field set.
package jobs
