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
	"regexp"
	"strings"
)

// match is one reference found in text. text[start:end] is replaced by format
// with the local path substituted for %s.
type match struct {
	ref        ResourceReference
	start, end int
	format     string
}

// Stylesheet reference shapes
var (
	cssImportURLPattern    = regexp.MustCompile(`@import url\(\s*['"]?(.*?)['"]?\s*\)`)
	cssImportStringPattern = regexp.MustCompile(`@import ['"](.*?)['"];`)
	cssURLPattern          = regexp.MustCompile(`url\(\s*['"]?(.*?)['"]?\s*\)`)
)

// Markup reference shapes found inside comments and script text
var (
	scriptSrcPattern       = regexp.MustCompile(`<script\s+.*?src=['"](.*?)['"]`)
	stylesheetRelPattern   = regexp.MustCompile(`<link\s+.*?rel=['"](?i:stylesheet)['"].*?href=['"](.*?)['"]`)
	stylesheetHrefPattern  = regexp.MustCompile(`<link\s+.*?href=['"](.*?)['"].*?rel=['"](?i:stylesheet)['"]`)
	faviconRelPattern      = regexp.MustCompile(`<link\s+.*?rel=['"].*?(?i:icon).*?['"].*?href=['"](.*?)['"]`)
	faviconHrefPattern     = regexp.MustCompile(`<link\s+.*?href=['"](.*?)['"].*?rel=['"].*?(?i:icon).*?['"]`)
	imgSrcPattern          = regexp.MustCompile(`<img\s+.*?src=['"](.*?)['"]`)
	configSrcKeyPattern    = regexp.MustCompile(`src['"]?:\s+?['"](.*?)['"]`)
	cssCommentMarkers      = []string{"//-->", "<!--", "-->"}
	scriptWrapperMarkers   = []string{"//<![CDATA[", "//]]>", "//-->", "<!--", "-->"}
	stylesheetImportPrefix = "@import "
)

// groupMatches returns the first capture group of every match of re as a
// reference whose replacement covers only the captured URL
func groupMatches(re *regexp.Regexp, text string, role Role) []match {
	var out []match
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, match{
			ref:    ResourceReference{URL: text[loc[2]:loc[3]], Role: role},
			start:  loc[2],
			end:    loc[3],
			format: "%s",
		})
	}
	return out
}

// extractCSSImportURLs finds @import url(...) references. The whole
// statement head is replaced.
func extractCSSImportURLs(text string) []match {
	var out []match
	for _, loc := range cssImportURLPattern.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, match{
			ref:    ResourceReference{URL: strings.TrimSpace(text[loc[2]:loc[3]]), Role: RoleCSSImport},
			start:  loc[0],
			end:    loc[1],
			format: `@import url("%s")`,
		})
	}
	return out
}

// extractCSSImportStrings finds @import "..."; references. The terminating
// semicolon is kept.
func extractCSSImportStrings(text string) []match {
	var out []match
	for _, loc := range cssImportStringPattern.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, match{
			ref:    ResourceReference{URL: strings.TrimSpace(text[loc[2]:loc[3]]), Role: RoleCSSImport},
			start:  loc[0],
			end:    loc[1] - 1,
			format: `@import url("%s")`,
		})
	}
	return out
}

// extractCSSURLs finds url(...) references that are not part of an @import
func extractCSSURLs(text string) []match {
	var out []match
	for _, loc := range cssURLPattern.FindAllStringSubmatchIndex(text, -1) {
		if strings.HasSuffix(text[:loc[0]], stylesheetImportPrefix) {
			continue
		}
		out = append(out, match{
			ref:    ResourceReference{URL: strings.TrimSpace(text[loc[2]:loc[3]]), Role: RoleCSSURL},
			start:  loc[0],
			end:    loc[1],
			format: `url("%s")`,
		})
	}
	return out
}

func extractScriptSrcs(text string) []match {
	return groupMatches(scriptSrcPattern, text, RoleScriptSrc)
}

// extractStylesheetHrefs matches <link> stylesheets with rel before href,
// then those with href before rel
func extractStylesheetHrefs(text string) []match {
	return append(
		groupMatches(stylesheetRelPattern, text, RoleStylesheetHref),
		groupMatches(stylesheetHrefPattern, text, RoleStylesheetHref)...,
	)
}

// extractFaviconHrefs matches <link> elements whose rel mentions "icon" in
// any case, in both attribute orders
func extractFaviconHrefs(text string) []match {
	return append(
		groupMatches(faviconRelPattern, text, RoleFaviconHref),
		groupMatches(faviconHrefPattern, text, RoleFaviconHref)...,
	)
}

func extractImgSrcs(text string) []match {
	return groupMatches(imgSrcPattern, text, RoleImageSrc)
}

// extractConfigSrcKeys matches object-literal style `src: "..."` entries
func extractConfigSrcKeys(text string) []match {
	return groupMatches(configSrcKeyPattern, text, RoleImageSrc)
}
