// Package config holds the tool configuration for envaudit.
//
// Configuration is layered: Default() provides built-in values, an optional
// YAML file (--config) overrides them, and command-line flags override both.
// Validation of the merged result uses go-playground/validator struct tags.
package config
