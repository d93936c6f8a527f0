// Package mocks provides hand-written test doubles for the interfaces
// defined in the store and service packages. Each mock exposes optional
// Fn fields for per-test behavior plus default return values for the
// common case.
package mocks
