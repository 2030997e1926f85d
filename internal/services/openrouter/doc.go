// Package openrouter implements the script generation provider client.
//
// The client talks to the OpenRouter chat completion API, requests a
// JSON-only response, retries transient failures with exponential backoff,
// and validates the returned script payload against a JSON Schema before
// handing scenes to the pipeline.
package openrouter
