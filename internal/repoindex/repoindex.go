// Package repoindex summarizes repository READMEs for the organization overview.
package repoindex

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

const (
	// PlaceholderSummary is the paragraph of a generated README stub. It never counts as a summary.
	PlaceholderSummary = "Auto-generated README stub. Update this content as needed."

	titleHeadingLevel   = 1
	emptyIndexMessage   = "_No repositories found._"
	entryWithSummary    = "- [%s](%s): %s"
	entryWithoutSummary = "- [%s](%s)"
)

// Entry describes one repository in the index.
type Entry struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Link    string `json:"link"`
}

// Describe extracts the first level-one heading and the first paragraph of readme.
// The title falls back to name when the document has no level-one heading.
func Describe(name string, link string, readme []byte) Entry {
	entry := Entry{Name: name, Title: name, Link: link}
	document := markdown.Parse(readme, parser.NewWithExtensions(parser.CommonExtensions))

	titleFound := false
	ast.WalkFunc(document, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch typedNode := node.(type) {
		case *ast.Heading:
			if !titleFound && typedNode.Level == titleHeadingLevel {
				if title := plainText(typedNode); title != "" {
					entry.Title = title
				}
				titleFound = true
			}
			return ast.SkipChildren
		case *ast.Paragraph:
			if entry.Summary == "" {
				if summary := plainText(typedNode); summary != PlaceholderSummary {
					entry.Summary = summary
				}
			}
			return ast.SkipChildren
		case *ast.CodeBlock, *ast.HTMLBlock:
			return ast.SkipChildren
		}
		if titleFound && entry.Summary != "" {
			return ast.Terminate
		}
		return ast.GoToNext
	})
	return entry
}

// Render formats entries as a Markdown bullet list, one repository per line.
func Render(entries []Entry) string {
	if len(entries) == 0 {
		return emptyIndexMessage
	}
	renderedEntries := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Summary == "" {
			renderedEntries = append(renderedEntries, fmt.Sprintf(entryWithoutSummary, entry.Title, entry.Link))
			continue
		}
		renderedEntries = append(renderedEntries, fmt.Sprintf(entryWithSummary, entry.Title, entry.Link, entry.Summary))
	}
	return strings.Join(renderedEntries, "\n")
}

// plainText concatenates the literal text below node, collapsing whitespace.
func plainText(node ast.Node) string {
	var builder strings.Builder
	ast.WalkFunc(node, func(child ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch typedChild := child.(type) {
		case *ast.Text:
			builder.Write(typedChild.Literal)
		case *ast.Code:
			builder.Write(typedChild.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			builder.WriteString(" ")
		}
		return ast.GoToNext
	})
	return strings.Join(strings.Fields(builder.String()), " ")
}
