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
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document queries. Attribute values are compared case-sensitively, so the
// common spellings are listed explicitly.
const (
	baseQuery        = `//base`
	commentQuery     = `//comment()`
	faviconQuery     = `//link[contains(@rel, "icon") or contains(@rel, "Icon") or contains(@rel, "ICON")]`
	imageQuery       = `//*[self::img or (self::input and (@type="image" or @type="Image" or @type="IMAGE"))]`
	embedQuery       = `//object[@data]`
	inlineStyleQuery = `//*[@style]`
	stylesheetQuery  = `//link[@rel="stylesheet" or @rel="Stylesheet" or @rel="STYLESHEET" or @rel="StyleSheet"]`
	scriptQuery      = `//script[@src]`
	headQuery        = `//head`
	styleBlockQuery  = `//style`
	scriptBlockQuery = `//script[not(@src)]`
	charsetMetaQuery = `//meta[@charset]`
	httpEquivQuery   = `//meta[@http-equiv="Content-Type" or @http-equiv="content-type"]`
)

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// replaceNode puts repl where n was
func replaceNode(n, repl *html.Node) {
	n.Parent.InsertBefore(repl, n)
	n.Parent.RemoveChild(n)
}

// localizeAttr localizes the URL held in attribute attr of n and points the
// attribute at the local copy
func (rc *runContext) localizeAttr(ctx context.Context, n *html.Node, attr string, t target) (*LocalizedAsset, error) {
	t.ref.URL = htmlquery.SelectAttr(n, attr)
	t.base = rc.pageURL
	t.relDir = rc.subdirHref("./", t.kind)
	asset, err := rc.localize(ctx, t)
	if err != nil {
		return nil, err
	}
	if asset != nil {
		setAttr(n, attr, asset.Href)
	}
	return asset, nil
}

// neutralizeBase clears the first <base href> so relative links in the saved
// document point into the local copy
func neutralizeBase(doc *html.Node) {
	if n := htmlquery.FindOne(doc, baseQuery); n != nil {
		setAttr(n, "href", "")
	}
}

// normalizeCharset declares UTF-8 in the document once it has been decoded
// from another encoding
func normalizeCharset(doc *html.Node) {
	for _, n := range htmlquery.Find(doc, charsetMetaQuery) {
		setAttr(n, "charset", "utf-8")
	}
	for _, n := range htmlquery.Find(doc, httpEquivQuery) {
		setAttr(n, "content", "text/html; charset=utf-8")
	}
}

func (rc *runContext) localizeComments(ctx context.Context, doc *html.Node) error {
	for _, n := range htmlquery.Find(doc, commentQuery) {
		out, err := rewriteComment(ctx, rc, n.Data, "./")
		if err != nil {
			return err
		}
		n.Data = out
	}
	return nil
}

// localizeFavicons stores linked icons in the image directory and tries the
// conventional /favicon.ico at the site root
func (rc *runContext) localizeFavicons(ctx context.Context, doc *html.Node) error {
	for _, n := range htmlquery.Find(doc, faviconQuery) {
		_, err := rc.localizeAttr(ctx, n, "href", target{
			ref:  ResourceReference{Role: RoleFaviconHref},
			kind: KindImage,
		})
		if err != nil {
			return err
		}
	}

	_, err := rc.localize(ctx, target{
		ref:    ResourceReference{URL: "/favicon.ico", Role: RoleFaviconHref},
		base:   rc.pageURL,
		kind:   KindUnknown,
		relDir: "./",
	})
	return err
}

func (rc *runContext) localizeImages(ctx context.Context, doc *html.Node) error {
	for _, n := range htmlquery.Find(doc, imageQuery) {
		_, err := rc.localizeAttr(ctx, n, "src", target{
			ref:  ResourceReference{Role: RoleImageSrc},
			kind: KindImage,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (rc *runContext) localizeEmbeds(ctx context.Context, doc *html.Node) error {
	for _, n := range htmlquery.Find(doc, embedQuery) {
		_, err := rc.localizeAttr(ctx, n, "data", target{
			ref:  ResourceReference{Role: RoleObjectData},
			kind: KindEmbed,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// rewriteInlineStyles rewrites style="" attributes. The document sits at the
// output root, hence the same-directory prefix.
func (rc *runContext) rewriteInlineStyles(ctx context.Context, doc *html.Node) error {
	for _, n := range htmlquery.Find(doc, inlineStyleQuery) {
		out, err := rewriteStylesheet(ctx, rc, htmlquery.SelectAttr(n, "style"), "./", rc.pageURL)
		if err != nil {
			return err
		}
		setAttr(n, "style", out)
	}
	return nil
}

// localizeStylesheets rewrites linked stylesheets and moves every localized
// <link> to the end of <head>
func (rc *runContext) localizeStylesheets(ctx context.Context, doc *html.Node) error {
	head := htmlquery.FindOne(doc, headQuery)
	for _, n := range htmlquery.Find(doc, stylesheetQuery) {
		asset, err := rc.localizeAttr(ctx, n, "href", target{
			ref:     ResourceReference{Role: RoleStylesheetHref},
			kind:    KindStylesheet,
			rewrite: rewriteFetchedStylesheet,
		})
		if err != nil {
			return err
		}
		if asset == nil || head == nil {
			continue
		}
		n.Parent.RemoveChild(n)
		head.AppendChild(n)
	}
	return nil
}

func (rc *runContext) localizeScripts(ctx context.Context, doc *html.Node) error {
	for _, n := range htmlquery.Find(doc, scriptQuery) {
		_, err := rc.localizeAttr(ctx, n, "src", target{
			ref:     ResourceReference{Role: RoleScriptSrc},
			kind:    KindScript,
			rewrite: rewriteFetchedScript,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// convertStyleBlocks moves each <style> block into css/style-block-NN.css and
// links it from where the block was
func (rc *runContext) convertStyleBlocks(ctx context.Context, doc *html.Node) error {
	for i, n := range htmlquery.Find(doc, styleBlockQuery) {
		name := fmt.Sprintf("style-block-%02d.css", i+1)
		css, err := rewriteStylesheet(ctx, rc, htmlquery.InnerText(n), "../", rc.pageURL)
		if err != nil {
			return err
		}
		if _, err := rc.store.Write(rc.cfg.StylesheetDir, name, []byte(css)); err != nil {
			return err
		}

		link := &html.Node{Type: html.ElementNode, Data: "link", DataAtom: atom.Link}
		setAttr(link, "rel", "stylesheet")
		if hasAttr(n, "media") {
			setAttr(link, "media", htmlquery.SelectAttr(n, "media"))
		}
		setAttr(link, "href", rc.subdirHref("./", KindStylesheet)+name)
		replaceNode(n, link)
		rc.log.Debugf("Converted style block to %s", name)
	}
	return nil
}

// convertScriptBlocks moves each inline <script> into js/script-block-NN.js
// and references it from where the block was
func (rc *runContext) convertScriptBlocks(ctx context.Context, doc *html.Node) error {
	for i, n := range htmlquery.Find(doc, scriptBlockQuery) {
		name := fmt.Sprintf("script-block-%02d.js", i+1)
		js, err := rewriteScript(ctx, rc, htmlquery.InnerText(n), "../", rc.pageURL)
		if err != nil {
			return err
		}
		if _, err := rc.store.Write(rc.cfg.ScriptDir, name, []byte(js)); err != nil {
			return err
		}

		script := &html.Node{Type: html.ElementNode, Data: "script", DataAtom: atom.Script}
		setAttr(script, "type", "text/javascript")
		setAttr(script, "src", rc.subdirHref("./", KindScript)+name)
		replaceNode(n, script)
		rc.log.Debugf("Converted script block to %s", name)
	}
	return nil
}
