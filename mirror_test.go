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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func runMirror(t *testing.T, cfg *Config, fetcher Fetcher, pageURL string) (*Report, *html.Node) {
	t.Helper()
	m, err := New(cfg, fetcher, quietLogger())
	require.NoError(t, err)

	report, err := m.Run(context.Background(), pageURL)
	require.NoError(t, err)

	doc, err := htmlquery.LoadDoc(filepath.Join(cfg.Location, cfg.HTMLFilename))
	require.NoError(t, err)
	return report, doc
}

func attrOf(t *testing.T, doc *html.Node, query, attr string) string {
	t.Helper()
	n := htmlquery.FindOne(doc, query)
	require.NotNil(t, n, query)
	return htmlquery.SelectAttr(n, attr)
}

func TestMirrorSingleImage(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &mapFetcher{bodies: map[string]string{
		"http://site.test/index.html": `<html><body><img src="pic.jpg"></body></html>`,
		"http://site.test/pic.jpg":    "JPEG",
	}}

	_, doc := runMirror(t, cfg, fetcher, "http://site.test/index.html")

	assert.Equal(t, "JPEG", readOutput(t, cfg, "img/pic.jpg"))
	assert.Equal(t, "./img/pic.jpg", attrOf(t, doc, "//img", "src"))
}

func TestMirrorStylesheetImportChain(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &mapFetcher{bodies: map[string]string{
		"http://site.test/index.html":     `<html><head><link rel="stylesheet" href="css/main.css"></head><body></body></html>`,
		"http://site.test/css/main.css":   `@import url("fonts.css");`,
		"http://site.test/css/fonts.css":  `@font-face { src: url("a.woff") }`,
		"http://site.test/css/a.woff":     "WOFF",
		"http://site.test/css/unused.css": "",
	}}

	_, doc := runMirror(t, cfg, fetcher, "http://site.test/index.html")

	assert.Equal(t, "./css/main.css", attrOf(t, doc, "//link", "href"))
	assert.Equal(t, `@import url("./fonts.css");`, readOutput(t, cfg, "css/main.css"))
	assert.Equal(t, `@font-face { src: url("../fonts/a.woff") }`, readOutput(t, cfg, "css/fonts.css"))
	assert.Equal(t, "WOFF", readOutput(t, cfg, "fonts/a.woff"))
}

const fullPage = `<!DOCTYPE html>
<html>
<head>
<base href="http://site.test/">
<title>Test</title>
<link rel="Shortcut Icon" href="/favicon.png">
<!--[if IE]><link rel="stylesheet" href="ie.css"><![endif]-->
<style media="print">body { background: url(paper.png) }</style>
</head>
<body style="background: url('bg.jpg')">
<link rel="stylesheet" href="late.css">
<img src="missing.jpg">
<img src="pic.jpg">
<input type="IMAGE" src="go.gif">
<object data="movie.swf"></object>
<img src="data:image/gif;base64,R0lGOD">
<script src="app.js"></script>
<script>
<!--
document.write('<img src="inline.png">');
//-->
</script>
</body>
</html>`

func fullPageFetcher() *mapFetcher {
	return &mapFetcher{bodies: map[string]string{
		"http://site.test/pages/index.html": fullPage,
		"http://site.test/favicon.png":      "PNGICON",
		"http://site.test/favicon.ico":      "ICO",
		"http://site.test/pages/ie.css":     "IE",
		"http://site.test/pages/paper.png":  "PAPER",
		"http://site.test/pages/bg.jpg":     "BG",
		"http://site.test/pages/late.css":   "p { color: red }",
		"http://site.test/pages/pic.jpg":    "PIC",
		"http://site.test/pages/go.gif":     "GO",
		"http://site.test/pages/movie.swf":  "SWF",
		"http://site.test/pages/app.js":     "console.log('app')",
		"http://site.test/pages/inline.png": "INLINE",
	}}
}

func TestMirrorFullPage(t *testing.T) {
	cfg := testConfig(t)
	report, doc := runMirror(t, cfg, fullPageFetcher(), "http://site.test/pages/index.html")

	t.Run("Base tag is neutralized", func(t *testing.T) {
		assert.Equal(t, "", attrOf(t, doc, "//base", "href"))
	})

	t.Run("Conditional comment is rewritten", func(t *testing.T) {
		comments := htmlquery.Find(doc, "//comment()")
		require.Len(t, comments, 1)
		assert.Contains(t, comments[0].Data, `href="./css/ie.css"`)
		assert.Equal(t, "IE", readOutput(t, cfg, "css/ie.css"))
	})

	t.Run("Favicons", func(t *testing.T) {
		assert.Equal(t, "./img/favicon.png", attrOf(t, doc, "//link[@rel='Shortcut Icon']", "href"))
		assert.Equal(t, "PNGICON", readOutput(t, cfg, "img/favicon.png"))
		assert.Equal(t, "ICO", readOutput(t, cfg, "favicon.ico"))
	})

	t.Run("Images", func(t *testing.T) {
		imgs := htmlquery.Find(doc, "//img")
		require.Len(t, imgs, 3)
		assert.Equal(t, "missing.jpg", htmlquery.SelectAttr(imgs[0], "src"))
		assert.Equal(t, "./img/pic.jpg", htmlquery.SelectAttr(imgs[1], "src"))
		assert.Equal(t, "data:image/gif;base64,R0lGOD", htmlquery.SelectAttr(imgs[2], "src"))
		assert.Equal(t, "./img/go.gif", attrOf(t, doc, "//input", "src"))
		assert.Equal(t, "PIC", readOutput(t, cfg, "img/pic.jpg"))
	})

	t.Run("Embedded object", func(t *testing.T) {
		assert.Equal(t, "./flash/movie.swf", attrOf(t, doc, "//object", "data"))
		assert.Equal(t, "SWF", readOutput(t, cfg, "flash/movie.swf"))
	})

	t.Run("Inline style attribute", func(t *testing.T) {
		assert.Equal(t, `background: url("./img/bg.jpg")`, attrOf(t, doc, "//body", "style"))
		assert.Equal(t, "BG", readOutput(t, cfg, "img/bg.jpg"))
	})

	t.Run("Stylesheet link moves to head", func(t *testing.T) {
		link := htmlquery.FindOne(doc, "//link[@href='./css/late.css']")
		require.NotNil(t, link)
		assert.Equal(t, "head", link.Parent.Data)
		assert.Equal(t, "p { color: red }", readOutput(t, cfg, "css/late.css"))
	})

	t.Run("Script source", func(t *testing.T) {
		assert.NotNil(t, htmlquery.FindOne(doc, "//script[@src='./js/app.js']"))
		assert.Equal(t, "console.log('app')", readOutput(t, cfg, "js/app.js"))
	})

	t.Run("Style block becomes a file", func(t *testing.T) {
		assert.Empty(t, htmlquery.Find(doc, "//style"))
		link := htmlquery.FindOne(doc, "//link[@href='./css/style-block-01.css']")
		require.NotNil(t, link)
		assert.Equal(t, "print", htmlquery.SelectAttr(link, "media"))
		assert.Equal(t, `body { background: url("../img/paper.png") }`, readOutput(t, cfg, "css/style-block-01.css"))
		assert.Equal(t, "PAPER", readOutput(t, cfg, "img/paper.png"))
	})

	t.Run("Script block becomes a file", func(t *testing.T) {
		assert.Empty(t, htmlquery.Find(doc, "//script[not(@src)]"))
		script := htmlquery.FindOne(doc, "//script[@src='./js/script-block-01.js']")
		require.NotNil(t, script)
		assert.Equal(t, "text/javascript", htmlquery.SelectAttr(script, "type"))
		assert.Equal(t, `document.write('<img src="../img/inline.png">');`, readOutput(t, cfg, "js/script-block-01.js"))
		assert.Equal(t, "INLINE", readOutput(t, cfg, "img/inline.png"))
	})

	t.Run("Report", func(t *testing.T) {
		require.Len(t, report.Failures, 1)
		assert.Equal(t, "http://site.test/pages/missing.jpg", report.Failures[0].URL)
		assert.Equal(t, RoleImageSrc, report.Failures[0].Reference.Role)
		assert.NotEmpty(t, report.Assets)
	})
}

func TestMirrorFilenameCollisionLastWriteWins(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &mapFetcher{bodies: map[string]string{
		"http://site.test/index.html": `<img src="a/logo.png"><img src="b/logo.png">`,
		"http://site.test/a/logo.png": "A",
		"http://site.test/b/logo.png": "B",
	}}

	_, doc := runMirror(t, cfg, fetcher, "http://site.test/index.html")

	for _, n := range htmlquery.Find(doc, "//img") {
		assert.Equal(t, "./img/logo.png", htmlquery.SelectAttr(n, "src"))
	}
	assert.Equal(t, "B", readOutput(t, cfg, "img/logo.png"))
}

func TestMirrorNumbersBlocks(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &mapFetcher{bodies: map[string]string{
		"http://site.test/": `<style>a{}</style><style>b{}</style><script>one()</script><script>two()</script>`,
	}}

	_, doc := runMirror(t, cfg, fetcher, "http://site.test/")

	assert.Equal(t, "b{}", readOutput(t, cfg, "css/style-block-02.css"))
	assert.Equal(t, "two()", readOutput(t, cfg, "js/script-block-02.js"))
	assert.Len(t, htmlquery.Find(doc, "//link[@rel='stylesheet']"), 2)
	assert.Len(t, htmlquery.Find(doc, "//script[@src]"), 2)
}

func TestMirrorConvertsCharset(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &mapFetcher{bodies: map[string]string{
		"http://site.test/": "<html><head><meta charset=\"iso-8859-1\"></head><body><p>caf\xe9</p></body></html>",
	}}

	_, doc := runMirror(t, cfg, fetcher, "http://site.test/")

	assert.Equal(t, "utf-8", attrOf(t, doc, "//meta", "charset"))
	assert.Equal(t, "café", htmlquery.InnerText(htmlquery.FindOne(doc, "//p")))
}

func TestMirrorRecreatesOutput(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Location, "img"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Location, "img", "stale.png"), []byte("old"), 0644))

	fetcher := &mapFetcher{bodies: map[string]string{"http://site.test/": "<p>hi</p>"}}
	runMirror(t, cfg, fetcher, "http://site.test/")

	assert.False(t, outputExists(cfg, "img/stale.png"))
	for _, dir := range cfg.Subdirectories() {
		info, err := os.Stat(filepath.Join(cfg.Location, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestMirrorPageFailures(t *testing.T) {
	cfg := testConfig(t)
	m, err := New(cfg, &mapFetcher{}, quietLogger())
	require.NoError(t, err)

	_, err = m.Run(context.Background(), "http://site.test/missing.html")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to get page content"))
	assert.False(t, outputExists(cfg, ""))

	_, err = m.Run(context.Background(), "relative/page.html")
	assert.Error(t, err)
}

func TestMirrorFilesystemFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg.Location = filepath.Join(blocker, "out")

	m, err := New(cfg, &mapFetcher{bodies: map[string]string{"http://site.test/": "<p></p>"}}, quietLogger())
	require.NoError(t, err)

	_, err = m.Run(context.Background(), "http://site.test/")
	assert.Error(t, err)
}
