// Package tracker records which projects depend on entries in user-level
// shared configuration files.
package tracker
