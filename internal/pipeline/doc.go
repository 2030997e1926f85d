// Package pipeline drives accepted jobs through the generation stages.
//
// The dispatcher validates requests and launches one orchestrator run per
// job. The orchestrator owns the job for the duration of the run, moving it
// script -> audio -> visuals -> merge and committing every progress change
// to the store so status reads always observe a consistent snapshot. A
// failure in any stage marks the job failed with a stage-attributed message
// and stops the run; completed and failed are both final.
package pipeline
