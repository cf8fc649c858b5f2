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
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// decodeDocument converts page bytes to UTF-8 using the BOM, any <meta>
// charset declaration, or a windows-1252 fallback. It also returns the name
// of the detected encoding.
func decodeDocument(data []byte) (string, string) {
	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	if name == "utf-8" {
		return string(data), name
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return string(data), "utf-8"
	}
	return string(out), name
}

// toUTF8 returns text unchanged when it is valid UTF-8 and otherwise decodes
// it from the encoding charset detection settles on
func toUTF8(text, contentType string) string {
	if utf8.ValidString(text) {
		return text
	}
	enc, _, _ := charset.DetermineEncoding([]byte(text), contentType)
	out, _, err := transform.String(enc.NewDecoder(), text)
	if err != nil {
		return text
	}
	return out
}
