// Package task provides the queue and worker pool that execute generation
// work concurrently. Producers enqueue tasks on a TaskQueue, close it, and
// a WorkerPool with a fixed number of goroutines drains it.
package task
