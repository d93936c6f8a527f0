// Package task provides background processing for alert evaluation.
// Quote events are turned into evaluation tasks and executed by a
// fixed-size worker pool, keeping slow evaluations off the poller's
// goroutine.
package task
