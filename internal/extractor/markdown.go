package extractor

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// extractMarkdown parses markdown and collects the text of its leaves,
// separating blocks with newlines so chunking sees sentence boundaries.
func extractMarkdown(data []byte) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(data))

	var out strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, isBlock := n.(*ast.Paragraph); isBlock {
				out.WriteString("\n")
			}
			if _, isHeading := n.(*ast.Heading); isHeading {
				out.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			out.Write(t.Segment.Value(data))
			if t.SoftLineBreak() || t.HardLineBreak() {
				out.WriteString(" ")
			}
		case *ast.FencedCodeBlock:
			for i := 0; i < t.Lines().Len(); i++ {
				line := t.Lines().At(i)
				out.Write(line.Value(data))
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return cleanText(out.String()), nil
}
