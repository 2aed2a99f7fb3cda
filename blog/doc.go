// Package blog holds the data model of a blog post run and the pure
// functions that operate on it: the state merge rule, structured output
// schemas, section merging, evidence filtering, slugs, the citation guard
// and title extraction.
package blog
