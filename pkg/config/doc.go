// Package config loads mdrender options from YAML or JSON files.
//
// Several options accept more than one shape, mirroring what users write by
// hand: keys may be a plain list (document keys only) or a {files, global}
// object, wildcard may be a boolean or a custom token, and globalRefs may be
// an inline reference map or a keypath into the metadata tree. Top-level
// options from the legacy marked-based configuration are moved into
// engineOptions with a warning.
package config
