// Package document defines the declarative configuration document and the
// merge engine that combines documents and on-disk JSON structures.
//
// A Document maps section names (skills, mcp, rules, prompts, hooks,
// editors) to named items. An item is a tagged union of three cases: a full
// object descriptor, a string shorthand, or the deletion sentinel `false`.
//
// The merge engine has two layers:
//
//   - DeepMerge is a generic deep merge over JSON-shaped maps with pluggable
//     per-path strategy resolution (merge, replace, keep). PathResolver
//     builds resolvers from dot-joined path patterns with single-segment
//     wildcards. ServerReplaceResolver is the pre-built resolver that keeps
//     MCP server definitions atomic across merges.
//
//   - MergeDocuments layers one document over another with the sentinel
//     deletion semantics described in its comment, and FilterScopes subsets
//     a document to the requested sections.
package document
