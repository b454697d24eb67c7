package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// textFragments returns every text node under n in document order.
func textFragments(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// rawText concatenates all text under n unchanged.
func rawText(n *html.Node) string {
	return strings.Join(textFragments(n), "")
}

// strippedText trims each text fragment, drops empty ones and joins the rest with sep.
func strippedText(n *html.Node, sep string) string {
	var parts []string
	for _, frag := range textFragments(n) {
		if s := strings.TrimSpace(frag); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func isElement(n *html.Node, tags []string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// documentIndex lists element nodes in document order so that
// preceding elements can be found without re-walking the tree.
type documentIndex struct {
	nodes    []*html.Node
	position map[*html.Node]int
}

func newDocumentIndex(root *html.Node) *documentIndex {
	idx := &documentIndex{position: make(map[*html.Node]int)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			idx.position[n] = len(idx.nodes)
			idx.nodes = append(idx.nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return idx
}

// nearbyDescription walks backwards from n in document order and returns the
// stripped text of the first paragraph-like element with a usable length.
// An enclosing element only contributes the text that precedes n.
func (idx *documentIndex) nearbyDescription(n *html.Node) string {
	pos, ok := idx.position[n]
	if !ok {
		return ""
	}
	ancestors := make(map[*html.Node]bool)
	for p := n.Parent; p != nil; p = p.Parent {
		ancestors[p] = true
	}
	for i := pos - 1; i >= 0; i-- {
		cand := idx.nodes[i]
		if !isElement(cand, NearbyTags) {
			continue
		}
		var text string
		if ancestors[cand] {
			text = textBefore(cand, n)
		} else {
			text = strippedText(cand, "")
		}
		if IsNearbyDescription(text) {
			return text
		}
	}
	return ""
}

// textBefore joins the trimmed text fragments of ancestor that come before n.
func textBefore(ancestor, n *html.Node) string {
	var parts []string
	done := false
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if done {
			return
		}
		if c == n {
			done = true
			return
		}
		if c.Type == html.TextNode {
			if s := strings.TrimSpace(c.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(ancestor)
	return strings.Join(parts, "")
}
