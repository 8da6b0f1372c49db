// Package configs provides embedded configuration templates for digestcrack.
//
// Templates are embedded at build time so that every distribution can
// write them:
//   - user-config.example.yaml: written by `digestcrack config init`
//   - project-config.example.yaml: written by `digestcrack config init --project`
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config (~/.config/digestcrack/config.yaml)
//  3. Project config (.digestcrack.yaml)
//  4. Environment variables (DIGESTCRACK_*)
//  5. Command-line flags
//
// The user template's active values must equal NewConfig() after "~"
// expansion; internal/config tests enforce it.
package configs

import _ "embed"

// UserConfigTemplate is the template for machine-level configuration.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the template for a per-directory .digestcrack.yaml.
// Every setting is commented out so that it changes nothing until edited.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
