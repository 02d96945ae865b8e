// Package plan models file changes and classifies desired content against
// the current on-disk state.
package plan
