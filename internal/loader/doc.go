// Package loader resolves skill, rule, and prompt content references.
package loader
