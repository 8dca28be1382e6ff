package render

import (
	"bytes"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tags kept when agenda summaries are echoed into print views. Attributes
// are always dropped.
var allowedTags = map[atom.Atom]bool{
	atom.B: true, atom.Strong: true, atom.I: true, atom.Em: true, atom.U: true,
	atom.P: true, atom.Br: true, atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.Div: true, atom.Span: true,
}

// PlainText flattens rich-text HTML into text with line breaks for block
// elements, for spreadsheet cells.
func PlainText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				sb.WriteString("\n")
			case atom.Li:
				sb.WriteString("\n- ")
			case atom.P, atom.Div:
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	lines := strings.Split(sb.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// SanitizeRichText keeps simple formatting of user-entered HTML and escapes
// everything else.
func SanitizeRichText(s string) template.HTML {
	z := html.NewTokenizer(strings.NewReader(s))
	var buf bytes.Buffer
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return template.HTML(buf.String())
		case html.TextToken:
			if skip == 0 {
				buf.WriteString(html.EscapeString(string(z.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip == 0 && allowedTags[a] {
				buf.WriteString("<" + a.String() + ">")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip == 0 && allowedTags[a] && a != atom.Br {
				buf.WriteString("</" + a.String() + ">")
			}
		}
	}
}
