// SPDX-License-Identifier: MIT

// Package lineio reads newline-delimited text without a fixed line limit.
package lineio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Each calls fn for every line of r with the trailing "\n" or "\r\n" removed.
// A final line without a newline is still delivered.
//
// When limit > 0, a line longer than limit bytes is not buffered: fn receives
// an empty line with overlong set, and reading continues with the next line.
// limit <= 0 delivers lines of any length.
//
// The returned error is a read error from r; io.EOF is not an error.
func Each(r io.Reader, limit int, fn func(line string, overlong bool)) error {
	br := bufio.NewReader(r)
	var buf []byte
	overlong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !overlong {
			buf = append(buf, chunk...)
			if limit > 0 && len(bytes.TrimRight(buf, "\r\n")) > limit {
				overlong, buf = true, buf[:0]
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if len(buf) > 0 || overlong {
			fn(string(bytes.TrimRight(buf, "\r\n")), overlong)
		}
		if err != nil {
			return nil
		}
		buf, overlong = buf[:0], false
	}
}
