// Package sink owns the log destinations of a run: the rolling "latest" file,
// the per-run archival file and the live console.
//
// A Group serializes writes so concurrent callers never interleave partial
// lines on any destination. Both files receive byte-identical content.
package sink
