// Package events decouples the price feed from alert evaluation.
//
// The poller emits quote events without knowing which handlers will process
// them. Handlers (the background task runner, in practice) subscribe through
// the EventEmitter and turn events into evaluation work. This keeps the feed,
// the task runner, and the alert service free of circular dependencies.
package events
