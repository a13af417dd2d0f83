package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/slokaweb/versefetch"
)

// FrameSrcs reports whether the document is a frame container (declares at
// least one frameset) and returns the src attributes of its child frames in
// frame-listing order. Frames without a src are skipped.
func FrameSrcs(rawHTML string) (srcs []string, isContainer bool, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, false, versefetch.Errorf(versefetch.EINVALID, "failed to parse HTML: %v", err)
	}

	if doc.Find("frameset").Length() == 0 {
		return nil, false, nil
	}

	doc.Find("frame").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			srcs = append(srcs, src)
		}
	})
	return srcs, true, nil
}

// ResolveFrameURL resolves a frame src against its container's URL.
// Absolute srcs pass through; relative srcs resolve against the container
// URL with its last path segment stripped, so frame_b.htm next to
// old/index.html resolves to old/frame_b.htm.
func ResolveFrameURL(containerURL, src string) (string, error) {
	ref, err := url.Parse(src)
	if err != nil {
		return "", versefetch.Errorf(versefetch.EINVALID, "invalid frame src %q: %v", src, err)
	}
	if ref.IsAbs() {
		return src, nil
	}

	base, err := url.Parse(containerURL)
	if err != nil {
		return "", versefetch.Errorf(versefetch.EINVALID, "invalid container URL %q: %v", containerURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}
