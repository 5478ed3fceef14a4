// Package appendix inserts and replaces marker-delimited sections of Markdown documents.
//
// A managed section looks like:
//
//	## Appendix: Directory Structure — project
//
//	<!-- BEGIN DIR TREE -->
//	```
//	project
//	└── main.go
//	```
//	<!-- END DIR TREE -->
//
// Text using the marker literals outside a managed section is read as a section
// boundary. When several sections match, only the first one is updated.
package appendix

import (
	"strings"
	"unicode"
)

const (
	// BeginMarker opens every directory tree section.
	BeginMarker = "<!-- BEGIN DIR TREE -->"
	// EndMarker closes every directory tree section.
	EndMarker = "<!-- END DIR TREE -->"
	// IndexBeginMarker opens the repository index section.
	IndexBeginMarker = "<!-- BEGIN REPO INDEX -->"
	// IndexEndMarker closes the repository index section.
	IndexEndMarker = "<!-- END REPO INDEX -->"

	repositoryHeadingPrefix = "## Appendix: Directory Structure — "
	organizationHeading     = "## Appendix: Overall Organization Directory Structure"
	indexHeading            = "## Repositories"

	newline          = "\n"
	carriageReturn   = "\r"
	sectionSeparator = "\n\n"
)

// Section describes the heading and markers of one managed section.
// Any heading line starting with HeadingPrefix, compared case-insensitively,
// belongs to the section regardless of the title that follows it.
type Section struct {
	HeadingPrefix string
	Title         string
	BeginMarker   string
	EndMarker     string
}

// RepositorySection is the tree section of a single repository README.
func RepositorySection(title string) Section {
	return Section{HeadingPrefix: repositoryHeadingPrefix, Title: title, BeginMarker: BeginMarker, EndMarker: EndMarker}
}

// OrganizationSection is the tree section of the aggregate organization README.
func OrganizationSection() Section {
	return Section{HeadingPrefix: organizationHeading, BeginMarker: BeginMarker, EndMarker: EndMarker}
}

// IndexSection is the repository index section of the aggregate organization README.
func IndexSection() Section {
	return Section{HeadingPrefix: indexHeading, BeginMarker: IndexBeginMarker, EndMarker: IndexEndMarker}
}

// Heading returns the full heading line of the section.
func (section Section) Heading() string {
	return section.HeadingPrefix + section.Title
}

// Region is a byte range [Start, End) of a document holding a managed section.
type Region struct {
	Start int
	End   int
}

// Block renders the section with body between its markers, ending with a newline.
func Block(section Section, body string) string {
	var builder strings.Builder
	builder.WriteString(section.Heading())
	builder.WriteString(sectionSeparator)
	builder.WriteString(section.BeginMarker)
	builder.WriteString(newline)
	builder.WriteString(body)
	builder.WriteString(newline)
	builder.WriteString(section.EndMarker)
	builder.WriteString(newline)
	return builder.String()
}

// Splice returns document with the section holding body. An existing section is
// replaced in place and every byte outside it is kept; otherwise the section is
// appended after the trimmed document, separated by one blank line. An empty
// document still receives the leading blank line.
func Splice(document string, section Section, body string) string {
	block := Block(section, body)
	if region, found := Locate(document, section); found {
		return document[:region.Start] + block + document[region.End:]
	}
	return strings.TrimRightFunc(document, unicode.IsSpace) + sectionSeparator + block
}

// Locate finds the first managed section in document. The region spans the
// heading line through the end marker. The line terminator after the marker is
// included only when nothing else follows the marker on its line.
func Locate(document string, section Section) (Region, bool) {
	lines := splitLines(document)
	for headingIndex, headingLine := range lines {
		if !hasHeadingPrefix(headingLine.text, section.HeadingPrefix) {
			continue
		}
		beginIndex := headingIndex + 1
		for beginIndex < len(lines) && strings.TrimSpace(lines[beginIndex].text) == "" {
			beginIndex++
		}
		if beginIndex == headingIndex+1 || beginIndex >= len(lines) {
			continue
		}
		if strings.TrimSpace(lines[beginIndex].text) != section.BeginMarker {
			continue
		}
		for endIndex := beginIndex + 1; endIndex < len(lines); endIndex++ {
			endLine := lines[endIndex]
			markerIndex := strings.Index(endLine.text, section.EndMarker)
			if markerIndex < 0 {
				continue
			}
			markerEnd := markerIndex + len(section.EndMarker)
			if markerEnd == len(endLine.text) {
				return Region{Start: headingLine.start, End: endLine.end}, true
			}
			return Region{Start: headingLine.start, End: endLine.start + markerEnd}, true
		}
	}
	return Region{}, false
}

func hasHeadingPrefix(line string, prefix string) bool {
	if len(line) < len(prefix) {
		return false
	}
	return strings.EqualFold(line[:len(prefix)], prefix)
}

// documentLine is a line of a document without its terminator.
// end is the offset just past the terminator, when there is one.
type documentLine struct {
	text  string
	start int
	end   int
}

func splitLines(document string) []documentLine {
	var lines []documentLine
	offset := 0
	for offset < len(document) {
		newlineIndex := strings.Index(document[offset:], newline)
		if newlineIndex < 0 {
			lines = append(lines, documentLine{text: strings.TrimSuffix(document[offset:], carriageReturn), start: offset, end: len(document)})
			break
		}
		lineEnd := offset + newlineIndex
		lines = append(lines, documentLine{text: strings.TrimSuffix(document[offset:lineEnd], carriageReturn), start: offset, end: lineEnd + 1})
		offset = lineEnd + 1
	}
	return lines
}
