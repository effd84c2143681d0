// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filetask

// Content is a loaded file. Data must not be modified and must not be
// used after Close.
type Content struct {
	Data    []byte
	release func() error
}

// Close releases the content. Calling it more than once is safe.
func (c *Content) Close() error {
	if c.release == nil {
		return nil
	}
	release := c.release
	c.release = nil
	c.Data = nil
	return release()
}

// Load reads the task's file. See [LoadFile].
func (t *Task) Load() (*Content, error) {
	return LoadFile(t.Path)
}
