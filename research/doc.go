// Package research gathers dated evidence for a topic: it runs web searches,
// asks the model to synthesize the raw results into evidence items, then
// deduplicates them and applies the recency window.
package research
