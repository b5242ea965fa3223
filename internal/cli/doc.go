// Package cli parses command-line arguments, merges them over the optional
// HCL settings file and reports usage problems as exit codes. It translates
// flags into the application's internal configuration.
package cli
