// Package playlist tracks the ordered list of available media filenames
// and a cursor into it.
package playlist

import "sync"

// Cursor is a pointer into an ordered list of filenames with wrap-around
// navigation. The list is replaced wholesale whenever the media source is
// polled; stale entries are never merged.
type Cursor struct {
	mu    sync.Mutex
	files []string
	index int
}

// NewCursor creates a cursor over the given files, positioned at the first
// entry.
func NewCursor(files []string) *Cursor {
	c := &Cursor{}
	c.Replace(files)
	return c
}

// Replace swaps in a new file list and resets the cursor to index 0.
func (c *Cursor) Replace(files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = make([]string, len(files))
	copy(c.files, files)
	c.index = 0
}

// Current returns the filename under the cursor, or false if the list is
// empty.
func (c *Cursor) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.files) == 0 {
		return "", false
	}
	return c.files[c.index], true
}

// Next advances the cursor, wrapping past the end, and returns the new
// current filename. Returns false on an empty list.
func (c *Cursor) Next() (string, bool) {
	return c.step(1)
}

// Prev moves the cursor back, wrapping past the start, and returns the new
// current filename. Returns false on an empty list.
func (c *Cursor) Prev() (string, bool) {
	return c.step(-1)
}

// Len returns the number of files in the list.
func (c *Cursor) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

// Files returns a copy of the current file list.
func (c *Cursor) Files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := make([]string, len(c.files))
	copy(files, c.files)
	return files
}

func (c *Cursor) step(delta int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.files)
	if n == 0 {
		return "", false
	}
	c.index = (c.index + delta + n) % n
	return c.files[c.index], true
}
