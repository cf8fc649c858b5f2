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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conditionalComment = `[if lt IE 9]>
<script src="html5shiv.js"></script>
<link rel="stylesheet" href="ie.css">
<link rel="shortcut icon" href="ie.ico">
<img src="warn.gif">
<![endif]`

func commentFetcher() *mapFetcher {
	return &mapFetcher{bodies: map[string]string{
		"http://site.test/html5shiv.js": "SHIV //-->",
		"http://site.test/ie.css":       "p { background: url(x.png) }",
		"http://site.test/ie.ico":       "ICON",
		"http://site.test/warn.gif":     "WARN",
	}}
}

func TestRewriteComment(t *testing.T) {
	cfg := testConfig(t)
	cfg.CommentFaviconQuirk = false
	rc := newTestContext(t, cfg, commentFetcher(), "http://site.test/index.html")

	out, err := rewriteComment(context.Background(), rc, conditionalComment, "./")
	require.NoError(t, err)

	expected := `[if lt IE 9]>
<script src="./js/html5shiv.js"></script>
<link rel="stylesheet" href="./css/ie.css">
<link rel="shortcut icon" href="./img/ie.ico">
<img src="./img/warn.gif">
<![endif]`
	assert.Equal(t, expected, out)

	// Files found in comments are stored without further rewriting
	assert.Equal(t, "SHIV //-->", readOutput(t, cfg, "js/html5shiv.js"))
	assert.Equal(t, "p { background: url(x.png) }", readOutput(t, cfg, "css/ie.css"))
	assert.Equal(t, "ICON", readOutput(t, cfg, "img/ie.ico"))
	assert.Equal(t, "WARN", readOutput(t, cfg, "img/warn.gif"))
}

func TestRewriteCommentFaviconQuirk(t *testing.T) {
	cfg := testConfig(t)
	require.True(t, cfg.CommentFaviconQuirk)
	rc := newTestContext(t, cfg, commentFetcher(), "http://site.test/index.html")

	_, err := rewriteComment(context.Background(), rc, conditionalComment, "./")
	require.NoError(t, err)

	// The favicon file holds the stylesheet fetched just before it
	assert.Equal(t, "p { background: url(x.png) }", readOutput(t, cfg, "img/ie.ico"))
}

func TestRewriteCommentFaviconQuirkWithoutStylesheet(t *testing.T) {
	cfg := testConfig(t)
	rc := newTestContext(t, cfg, commentFetcher(), "http://site.test/index.html")

	_, err := rewriteComment(context.Background(), rc, `[if IE]><link rel="icon" href="ie.ico"><![endif]`, "./")
	require.NoError(t, err)
	assert.Equal(t, "", readOutput(t, cfg, "img/ie.ico"))
}

func TestRewriteCommentWithoutReferences(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &mapFetcher{}
	rc := newTestContext(t, cfg, fetcher, "http://site.test/index.html")

	out, err := rewriteComment(context.Background(), rc, " Google Analytics ", "./")
	require.NoError(t, err)
	assert.Equal(t, " Google Analytics ", out)
	assert.Empty(t, fetcher.requested)
}
