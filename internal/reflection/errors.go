package reflection

import "errors"

var (
	// ErrUnknownKind indicates a kind name or number outside the closed set.
	ErrUnknownKind = errors.New("unknown reflection kind")

	// ErrUnknownReference indicates a group or category references an id or name
	// that is not a child of the reflection.
	ErrUnknownReference = errors.New("unknown child reference")

	// ErrNotProject indicates the root of a model is not a project.
	ErrNotProject = errors.New("model root is not a project")
)
