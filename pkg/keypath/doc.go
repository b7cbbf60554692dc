// Package keypath addresses values inside shape-unknown trees built from
// maps and sequences (the shapes encoding/json and yaml.v3 decode into) and
// expands declarative keypaths containing wildcard segments into the concrete
// paths that currently exist in a tree.
//
// Get and Set never create intermediate structure: Get reports absence and
// Set refuses to write below a missing parent. Expand only fails on malformed
// input shapes; a keypath that does not match anything simply contributes no
// paths.
package keypath
