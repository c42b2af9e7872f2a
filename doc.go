// Package tracklight is the in-process transaction tracking core of an
// application performance monitoring agent.  It tracks one unit of work per
// execution context, accumulates structured telemetry about it, and at
// completion assembles that telemetry into a sanitized, bounded payload for
// handoff to a recording backend.
package tracklight
