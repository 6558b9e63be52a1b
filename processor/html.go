// Package processor turns cached text versions into displayable segments.
package processor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/gotext"
	"golang.org/x/net/html"
)

// IgnoredTags contains tags whose content is dropped from plain text.
var IgnoredTags = map[string]bool{
	"script": true,
	"style":  true,
}

// FootnoteClasses are the class names that mark footnote markup in segments.
var FootnoteClasses = []string{"footnote-marker", "footnote"}

// HTMLProcessor renders HTML-bearing segments as plain text.
type HTMLProcessor struct {
	ignoredTags   map[string]bool
	keepFootnotes bool
}

// NewHTMLProcessor creates a processor that strips markup and footnotes.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: IgnoredTags,
	}
}

// WithFootnotes keeps footnote text inline instead of dropping it.
func (p *HTMLProcessor) WithFootnotes() *HTMLProcessor {
	p.keepFootnotes = true
	return p
}

// Segments flattens a version's nested text into ordered segments.
// Text may be a string, an array of strings, or arrays nested to any depth.
func Segments(v *gotext.Version) ([]string, error) {
	if v == nil || len(v.Text) == 0 {
		return nil, nil
	}

	var raw interface{}
	if err := json.Unmarshal(v.Text, &raw); err != nil {
		return nil, fmt.Errorf("decoding text of %q: %w", v.Ref, err)
	}

	var out []string
	var walk func(interface{}) error
	walk = func(node interface{}) error {
		switch t := node.(type) {
		case nil:
			return nil
		case string:
			out = append(out, t)
		case []interface{}:
			for _, child := range t {
				if err := walk(child); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unexpected text node %T in %q", node, v.Ref)
		}
		return nil
	}

	if err := walk(raw); err != nil {
		return nil, err
	}
	return out, nil
}

// PlainText strips markup from a segment and collapses whitespace.
func (p *HTMLProcessor) PlainText(segment string) (string, error) {
	if !strings.Contains(segment, "<") && !strings.Contains(segment, "&") {
		return collapse(segment), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(segment))
	if err != nil {
		return "", fmt.Errorf("parsing segment: %w", err)
	}

	if !p.keepFootnotes {
		for _, class := range FootnoteClasses {
			doc.Find("." + class).Remove()
		}
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if p.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			if n.Data == "br" {
				b.WriteByte(' ')
				return
			}
		}

		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Find("body").Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})

	return collapse(b.String()), nil
}

// Render returns the plain text segments of a version.
func (p *HTMLProcessor) Render(v *gotext.Version) ([]string, error) {
	segments, err := Segments(v)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(segments))
	for i, seg := range segments {
		text, err := p.PlainText(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %d of %q: %w", i+1, v.Ref, err)
		}
		out = append(out, text)
	}
	return out, nil
}

// Footnotes returns the footnote texts found in a segment, in order.
func Footnotes(segment string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(segment))
	if err != nil {
		return nil, fmt.Errorf("parsing segment: %w", err)
	}

	var notes []string
	doc.Find("i.footnote").Each(func(i int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			notes = append(notes, text)
		}
	})
	return notes, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
