// Package glossary extracts terminology from markdown-formatted source
// text and resolves terms to previously approved translations.
//
// A glossary term is a span whose translation should stay consistent
// across runs: emphasized text (*term* or **term**), heading text, and
// image captions (alt text). Terms are found with a full document-tree
// walk, so emphasis nested inside headings or captions is still captured.
package glossary

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// Extract returns the deduplicated set of glossary terms found in a block
// of markdown text. Malformed markdown degrades to fewer (or no) terms,
// never an error.
func Extract(source string) map[string]bool {
	terms := make(map[string]bool)
	if strings.TrimSpace(source) == "" {
		return terms
	}

	src := []byte(source)
	doc := markdown.Parser().Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindEmphasis, ast.KindHeading, ast.KindImage:
			if term := nodeText(n, src); term != "" {
				terms[term] = true
			}
		}
		// Keep walking into children: emphasis inside a heading or an
		// image caption is a term of its own.
		return ast.WalkContinue, nil
	})

	return terms
}

// nodeText concatenates the literal text of a node's subtree.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
