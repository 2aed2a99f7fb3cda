// Package imagegen renders the images an image plan asks for and splices
// them into the post. A failure to render one image never affects the
// others: its placeholder is replaced by a diagnostic block instead.
package imagegen
