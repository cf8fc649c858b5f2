// Copyright (c) 2025 Ronan Le Meillat
//
// Page Mirror - A tool for capturing a single web page for offline viewing
//
// Author: Ronan Le Meillat
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"sort"
	"strings"
)

// edit replaces text[start:end]
type edit struct {
	start, end int
	text       string
}

// editList collects substitutions against one source text and applies them in
// a single pass, so replacement text is never scanned again. When two edits
// overlap the one added first wins.
type editList struct {
	edits []edit
}

func (l *editList) add(start, end int, text string) bool {
	for _, e := range l.edits {
		if start < e.end && e.start < end {
			return false
		}
	}
	l.edits = append(l.edits, edit{start: start, end: end, text: text})
	return true
}

// strip removes every occurrence of each marker, in the order given
func (l *editList) strip(text string, markers ...string) {
	for _, marker := range markers {
		for offset := 0; ; {
			i := strings.Index(text[offset:], marker)
			if i < 0 {
				break
			}
			start := offset + i
			l.add(start, start+len(marker), "")
			offset = start + len(marker)
		}
	}
}

func (l *editList) apply(text string) string {
	if len(l.edits) == 0 {
		return text
	}
	edits := append([]edit(nil), l.edits...)
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range edits {
		b.WriteString(text[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(text[last:])
	return b.String()
}
