package config

import "errors"

// Configuration validation errors
var (
	ErrInvalidFormat     = errors.New("invalid output format")
	ErrInvalidCompatDate = errors.New("invalid compatibility date")
	ErrInvalidFeature    = errors.New("invalid scaffold feature")
)

// Configuration loading errors
var (
	ErrConfigFileNotFound = errors.New("configuration file not found")
	ErrConfigParseError   = errors.New("configuration parse error")
	ErrConfigWatchError   = errors.New("configuration watch error")
)
