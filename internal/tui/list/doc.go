// Package listview provides a virtual scrolling list for Bubble Tea models.
// Only the rows inside the viewport are rendered, and the cursor moves with
// up/down, j/k, pgup/pgdn, and home/end.
package listview
