// Package goquery provides the HTML parsing half of the pipeline: verse
// extraction, frameset resolution, and chapter link discovery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/slokaweb/versefetch"
	"golang.org/x/net/html"
)

// verseSelector marks verse paragraphs in the archive's modern markup.
const verseSelector = "p.SanSloka"

// Ensure Extractor implements versefetch.VerseExtractor at compile time.
var _ versefetch.VerseExtractor = (*Extractor)(nil)

// Extractor pulls Sanskrit verses out of an HTML document with a two-tier
// strategy: the structural verse marker first, then a Devanagari
// script-detection heuristic for pages from eras before the marker existed.
// The heuristic is strictly a fallback; when the marker matches anything,
// heuristic results are never merged in.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the verses in document order. An empty slice with a nil
// error means the document parsed but contained no verse text.
func (e *Extractor) Extract(rawHTML string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, versefetch.Errorf(versefetch.EINVALID, "failed to parse HTML: %v", err)
	}

	var verses []string
	doc.Find(verseSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := textWithLineBreaks(sel); text != "" {
			verses = append(verses, text)
		}
	})
	if len(verses) > 0 {
		return verses, nil
	}

	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := textWithLineBreaks(sel)
		if containsDevanagari(text) {
			verses = append(verses, text)
		}
	})
	return verses, nil
}

// textWithLineBreaks extracts the selection's text with <br> elements
// converted to newlines, trimmed of surrounding whitespace.
func textWithLineBreaks(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		writeNodeText(&b, node)
	}
	return strings.TrimSpace(b.String())
}

func writeNodeText(b *strings.Builder, node *html.Node) {
	switch {
	case node.Type == html.TextNode:
		b.WriteString(node.Data)
	case node.Type == html.ElementNode && node.Data == "br":
		b.WriteString("\n")
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(b, c)
	}
}

// containsDevanagari reports whether any rune falls in the Devanagari
// Unicode block, U+0900 through U+097F inclusive. The block is checked
// directly rather than via unicode.Devanagari, which also spans the
// Extended ranges outside the corpus.
func containsDevanagari(s string) bool {
	for _, r := range s {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}

// Title returns the document's trimmed <title> text, or "" if absent.
func Title(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
