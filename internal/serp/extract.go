package serp

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/profscan/profscan/internal/model"
)

// ExtractCandidates parses the rendered HTML of one result page and
// returns a candidate per anchor element carrying an href. The display
// text is the anchor's heading (an h1-h3 descendant, the way both engines
// mark result titles) when present, otherwise the anchor's own text.
//
// Anchors without an href and javascript:/mailto: pseudo-links are
// skipped; everything else passes through for the normalizer to judge.
func ExtractCandidates(content io.Reader, provider model.Provider, page int) ([]model.Candidate, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := anchorHref(n); href != "" {
				text := headingText(n)
				if text == "" {
					text = nodeText(n)
				}
				candidates = append(candidates, model.Candidate{
					RawURL:     href,
					RawText:    text,
					SourcePage: page,
					Provider:   provider,
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return candidates, nil
}

// anchorHref returns the anchor's href, or empty string for missing and
// pseudo-scheme hrefs that can never be result links.
func anchorHref(n *html.Node) string {
	href := strings.TrimSpace(getAttr(n, "href"))
	if href == "" || href == "#" {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}
	return href
}

// headingText returns the text of the first h1, h2, or h3 descendant.
// Both engines wrap result titles in a heading inside the result anchor.
func headingText(n *html.Node) string {
	var found string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != "" {
			return
		}
		if node.Type == html.ElementNode {
			switch node.Data {
			case "h1", "h2", "h3":
				found = nodeText(node)
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return found
}

// nodeText collects and normalizes all text beneath a node.
// Runs of whitespace collapse to single spaces.
func nodeText(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(b.String()), " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
