// Package storage defines the persistence interfaces for advisory content.
//
// Content records (archetypes, talent trees, mentor profiles, houserule
// grants) are authored externally, imported once, and read at process-ready
// time by the advisor registries. Stores are read-mostly; the only append
// path during normal operation is telemetry.
package storage
