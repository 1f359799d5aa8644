// Package cli parses command-line arguments into a command and a validated
// application configuration. A YAML config file supplies the base values and
// explicitly set flags override it. It also owns process-level concerns like
// exit codes.
package cli
