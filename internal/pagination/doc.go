// Package pagination provides the paging and sorting flags shared by list
// commands and the browser: Params validation, windowing with Apply, page
// metadata, and translation of "column:order" into resolver sort keys.
package pagination
