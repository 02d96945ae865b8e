// Package detect probes the machine and the project for signs of each
// supported editor, so commands can default their editor selection to
// what is actually in use instead of fanning out to everything.
package detect
