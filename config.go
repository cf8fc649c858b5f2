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
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Default settings for a mirror run
const (
	defaultLocation  = "./files"
	defaultUserAgent = "Mozilla/5.0 (Windows; U; MSIE 7.0; Windows NT 6.0;)"
	defaultTimeout   = 30 * time.Second
)

// Third-party hosts that are known to break when mirrored (font services, maps)
var defaultExcludedDomains = []string{
	"fonts.googleapis.com",
	"maps.googleapis.com",
	"fast.fonts.com",
	"use.typekit.net",
}

// Config holds the settings of one mirror run. It is not modified once a run starts.
type Config struct {
	Location        string // Output root directory
	ScriptDir       string // Subdirectory for scripts and script-adjacent files
	StylesheetDir   string // Subdirectory for stylesheets
	FontDir         string // Subdirectory for fonts
	EmbedDir        string // Subdirectory for flash / embedded objects
	ImageDir        string // Subdirectory for images and favicons
	HTMLFilename    string // Name of the rewritten document
	UserAgent       string
	Username        string
	Password        string
	ExcludedDomains []string
	Timeout         time.Duration

	// InsecureSkipVerify disables TLS certificate validation. It is on by
	// default so that sites with broken or self-signed certificates can still
	// be captured.
	InsecureSkipVerify bool

	// CommentFaviconQuirk stores the most recently fetched stylesheet bytes in
	// place of a favicon discovered inside a comment, as earlier releases did.
	CommentFaviconQuirk bool
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Location:            defaultLocation,
		ScriptDir:           "js",
		StylesheetDir:       "css",
		FontDir:             "fonts",
		EmbedDir:            "flash",
		ImageDir:            "img",
		HTMLFilename:        "index.html",
		UserAgent:           defaultUserAgent,
		ExcludedDomains:     append([]string(nil), defaultExcludedDomains...),
		Timeout:             defaultTimeout,
		InsecureSkipVerify:  true,
		CommentFaviconQuirk: true,
	}
}

// Validate checks the configuration and trims a trailing slash from the location
func (c *Config) Validate() error {
	c.Location = strings.TrimRight(c.Location, "/")
	if c.Location == "" {
		return errors.New("output location must not be empty")
	}
	dirs := map[string]string{
		"script":     c.ScriptDir,
		"stylesheet": c.StylesheetDir,
		"font":       c.FontDir,
		"embed":      c.EmbedDir,
		"image":      c.ImageDir,
	}
	for name, dir := range dirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			return errors.Errorf("invalid %s directory %q", name, dir)
		}
	}
	if c.HTMLFilename == "" {
		return errors.New("html filename must not be empty")
	}
	return nil
}

// Subdirectories returns the five fixed output subdirectories
func (c *Config) Subdirectories() []string {
	return []string{c.ScriptDir, c.StylesheetDir, c.FontDir, c.EmbedDir, c.ImageDir}
}

// Dir returns the output subdirectory for a resource kind. Unknown resources
// live at the output root.
func (c *Config) Dir(kind ResourceKind) string {
	switch kind {
	case KindScript:
		return c.ScriptDir
	case KindStylesheet:
		return c.StylesheetDir
	case KindFont:
		return c.FontDir
	case KindEmbed:
		return c.EmbedDir
	case KindImage:
		return c.ImageDir
	}
	return ""
}
