// Package internal documents the committee portal internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: business rules for events, meetings, tasks, staff, expenses, templates and notifications
// - storage: the repository boundary and its postgres, sqlite and firestore backends
// - jobs: River workers for SMS dispatch and recurring events
// - app, config, metrics, telemetry, sms, seed: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
