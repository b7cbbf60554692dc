// Package render defines the Renderer contract shared by every markdown
// backend, a name-based Registry for picking one, and the Scheduler that runs
// concurrent render passes over the string fields of a target tree.
package render
