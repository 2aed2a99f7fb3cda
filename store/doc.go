// Package store persists finished posts on the local filesystem.
//
// A post is saved twice: as <outputs>/<name>.md, the canonical copy whose
// images live in <outputs>/images, and as <root>/<name>.md for tools that
// look in the working directory. The package also lists past posts, bundles
// a post with its images as a zip archive and renders it to HTML.
//
// Runs keeps the outcome of recent runs in memory for servers that report
// on them after the stream has closed.
package store
