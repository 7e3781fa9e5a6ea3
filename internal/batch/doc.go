// Package batch runs many conversion jobs with a bounded number in flight.
//
// The Scheduler admits jobs in input order through a counting semaphore,
// collects every attempted job's work dir into a deduplicated set, and
// hands that set to a single cleanup call once every job has finished.
package batch
