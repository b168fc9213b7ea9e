package logging

// Field name constants for structured logging.
const (
	FieldError = "error"
	FieldPath  = "path"
	FieldInput = "input"

	// Rule and automaton fields.
	FieldRules     = "rules"
	FieldCount     = "count"
	FieldStates    = "states"
	FieldBackrefs  = "backrefs"
	FieldReachable = "reachable"
	FieldPrefilter = "prefilter"
	FieldCycle     = "cycle"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
