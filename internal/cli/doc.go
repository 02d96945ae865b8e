// Package cli renders plan, apply, and detection results for terminal
// output.
package cli
