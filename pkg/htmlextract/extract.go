// Package htmlextract pulls visible text and tag-weighted substrings out
// of an HTML document, using a lenient tree parser so malformed markup
// never aborts a build.
package htmlextract

import (
	"strings"

	"golang.org/x/net/html"
)

// skipTags holds elements whose text content is not prose and must be
// excluded from the visible-text rendering.
var skipTags = map[string]bool{
	"script": true,
	"style":  true,
}

// Extracted holds the output of parsing one document: its visible text,
// and, per weighted tag name, the text content of every occurrence of
// that tag.
type Extracted struct {
	Text    string
	TagText map[string][]string
}

// Extract parses rawHTML leniently and returns its visible text plus the
// text of every occurrence of each tag named in weightedTags. Malformed
// markup degrades gracefully: golang.org/x/net/html repairs broken trees
// on a best-effort basis rather than failing.
func Extract(rawHTML string, weightedTags []string) (Extracted, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return Extracted{}, err
	}

	wanted := make(map[string]bool, len(weightedTags))
	for _, tag := range weightedTags {
		wanted[tag] = true
	}

	result := Extracted{TagText: make(map[string][]string)}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			result.Text += n.Data
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
			if wanted[n.Data] {
				text := textContent(n)
				if strings.TrimSpace(text) != "" {
					result.TagText[n.Data] = append(result.TagText[n.Data], text)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

// textContent concatenates the text of every descendant text node of n,
// in document order.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if skipTags[n.Data] {
		return ""
	}

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
