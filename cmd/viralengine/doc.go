// Command viralengine submits video generation jobs and reports their
// progress until every job completes or fails.
package main
