// Package pipeline assembles the blog generation workflow.
//
// A run flows through these stages:
//
//	router -> [needs research?] -> research -> orchestrator -> worker xN
//	       -> merge_content -> decide_images -> generate_and_place_images
//
// The router decides whether web research is needed and sets the recency
// window. The orchestrator plans the post as a list of tasks, and one
// worker per task writes its section concurrently. The reducer stages
// merge the sections by task ID, plan illustrations, render them into the
// document and persist the result.
//
// Every stage reads a snapshot of blog.State and returns a blog.Update.
// Run blocks until the post is written; Stream returns the event channel
// so callers can render progress as each stage completes.
package pipeline
