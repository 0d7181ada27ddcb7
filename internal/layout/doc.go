// Package layout holds the résumé block model and the page planner.
//
// A rendered résumé is described as a flat, document-ordered list of
// blocks: an optional header, then for each section its title followed
// by its items. Plan partitions that list into pages whose measured
// heights fit a fixed budget without ever leaving a section title alone
// at the bottom of a page.
package layout
