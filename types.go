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
	"net/url"
	"path"
	"strings"
)

// ResourceKind decides which output subdirectory a resource is stored in
type ResourceKind int

const (
	KindUnknown ResourceKind = iota
	KindScript
	KindStylesheet
	KindFont
	KindImage
	KindEmbed
)

func (k ResourceKind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindStylesheet:
		return "stylesheet"
	case KindFont:
		return "font"
	case KindImage:
		return "image"
	case KindEmbed:
		return "embed"
	}
	return "unknown"
}

// Role is where a reference was found
type Role int

const (
	RoleScriptSrc Role = iota
	RoleStylesheetHref
	RoleFaviconHref
	RoleImageSrc
	RoleObjectData
	RoleCSSImport
	RoleCSSURL
)

func (r Role) String() string {
	return [...]string{
		"script-src",
		"stylesheet-href",
		"favicon-href",
		"image-src",
		"object-data",
		"css-import",
		"css-url",
	}[r]
}

// ResourceReference is a candidate URL discovered during one rewrite pass
type ResourceReference struct {
	URL  string
	Role Role
}

// LocalizedAsset describes a resource that was fetched and written to disk
type LocalizedAsset struct {
	Reference ResourceReference
	URL       string // Absolute URL the bytes were fetched from
	Kind      ResourceKind
	Dir       string // Output subdirectory, empty for the root
	Filename  string
	Href      string // Relative path substituted for the reference
	Path      string // Path on disk
	Data      []byte
}

// FetchFailure records a resource that could not be fetched and was left as-is
type FetchFailure struct {
	Reference ResourceReference
	URL       string
	Err       error
}

// Report lists everything a run localized and everything it had to leave alone
type Report struct {
	Assets   []LocalizedAsset
	Failures []FetchFailure
}

// Font and script-adjacent extensions recognised in stylesheet url() references
var (
	fontExtensions   = map[string]bool{"eot": true, "otf": true, "svg": true, "ttf": true, "woff": true}
	scriptExtensions = map[string]bool{"htc": true, "js": true, "xml": true, "php": true}
)

// classifyExtension derives the kind of a stylesheet url() reference from the
// extension of its (unescaped) path.
func classifyExtension(rawURL string) ResourceKind {
	p := splitURL(rawURL).path
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	switch {
	case fontExtensions[ext]:
		return KindFont
	case scriptExtensions[ext]:
		return KindScript
	}
	return KindImage
}
