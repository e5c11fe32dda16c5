package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingTargetLanguage is returned when a generated source is built without a target language.
	ErrMissingTargetLanguage = zerr.New("generated source has no target language")

	// ErrToolNotFound is returned when no tool is registered for a toolchain function.
	ErrToolNotFound = zerr.New("tool not found")

	// ErrToolAlreadyExists is returned when adding a tool for a function that already has one.
	ErrToolAlreadyExists = zerr.New("tool already exists")

	// ErrToolWithoutFunction is returned when a stored tool entry has no function name.
	ErrToolWithoutFunction = zerr.New("tool entry has no function")

	// ErrCommandFailed is returned when a build command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrMalformedDependency is returned when a dependency argument is neither a target nor a path.
	ErrMalformedDependency = zerr.New("malformed dependency")

	// ErrCycleDetected is returned when flattening walks back into a target on the current path.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not declared.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrDuplicateTarget is returned when two targets are declared with the same name.
	ErrDuplicateTarget = zerr.New("duplicate target name")

	// ErrUnknownKind is returned when a target kind cannot be parsed.
	ErrUnknownKind = zerr.New("unknown target kind")

	// ErrUnknownSetting is returned when a setting key is not recognised.
	ErrUnknownSetting = zerr.New("unknown setting")

	// ErrDescriptionNotFound is returned when no build description exists in the directory tree.
	ErrDescriptionNotFound = zerr.New("build description not found")

	// ErrInvalidDescription is returned when a build description cannot be parsed or validated.
	ErrInvalidDescription = zerr.New("invalid build description")

	// ErrDescriptionExists is returned when scaffolding would overwrite a build description.
	ErrDescriptionExists = zerr.New("build description already exists")
)
