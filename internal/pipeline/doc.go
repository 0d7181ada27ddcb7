// Package pipeline prepares résumé HTML before it is measured and
// rendered: extra stylesheet injection, relative resource rewriting, and
// markdown rendering for résumé descriptions.
package pipeline
