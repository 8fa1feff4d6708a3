// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// Snapshot errors
	CodeSnapshotNilAccessor Code = "SNAPSHOT_NIL_ACCESSOR"

	// Registry errors
	CodeRegistryNilStore Code = "REGISTRY_NIL_STORE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Importer errors
	CodeImportInvalidDocument Code = "IMPORT_INVALID_DOCUMENT"
)
