// Package manifest describes worker projects for the scaffolder.
package manifest

import "errors"

// Manifest validation errors
var (
	ErrInvalidProjectName = errors.New("invalid project name")
	ErrInvalidObjectName  = errors.New("invalid object class name")
	ErrInvalidCompatDate  = errors.New("invalid compatibility date")
	ErrUnknownFeature     = errors.New("unknown feature")
)

// Manifest loading errors
var (
	ErrManifestNotFound = errors.New("manifest file not found")
	ErrManifestParse    = errors.New("manifest parse error")
)
