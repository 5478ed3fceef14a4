// Package output renders run reports and trees in raw or JSON form.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/temirov/readmetree/internal/treerender"
	"github.com/temirov/readmetree/internal/types"
	"github.com/temirov/readmetree/internal/workspace"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	dryRunTag           = "DRY"
	writeTag            = "WRITE"
	updatedStatus       = "updated"
	unchangedStatus     = "unchanged"
	repositoryLineFmt   = "[%s] %s README %s\n"
	organizationLineFmt = "[%s] %s %s\n"
	doneLineFormat      = "[DONE] Files changed: %d\n"

	errorUnsupportedFormat = "unsupported format %q"
	errorMarshalFormat     = "marshal %s output: %w"
)

// WriteReport renders report to writer in the requested format.
func WriteReport(writer io.Writer, format string, report workspace.Report) error {
	switch format {
	case types.FormatRaw:
		WriteReportRaw(writer, report)
		return nil
	case types.FormatJSON:
		return writeJSON(writer, types.CommandUpdate, report)
	default:
		return fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// WriteReportRaw prints one status line per document followed by the changed total.
func WriteReportRaw(writer io.Writer, report workspace.Report) {
	tag := writeTag
	if report.DryRun {
		tag = dryRunTag
	}
	for _, document := range report.Documents {
		status := unchangedStatus
		if document.Changed {
			status = updatedStatus
		}
		if document.Kind == workspace.DocumentKindOrganization {
			fmt.Fprintf(writer, organizationLineFmt, tag, document.Name, status)
			continue
		}
		fmt.Fprintf(writer, repositoryLineFmt, tag, document.Name, status)
	}
	fmt.Fprintf(writer, doneLineFormat, report.ChangedCount)
}

// WriteTree renders a tree as a fenced block (raw) or as nested entries (JSON).
func WriteTree(writer io.Writer, format string, tree treerender.Tree) error {
	switch format {
	case types.FormatRaw:
		_, writeError := fmt.Fprintln(writer, tree.Markdown())
		return writeError
	case types.FormatJSON:
		return writeJSON(writer, types.CommandTree, tree.Root)
	default:
		return fmt.Errorf(errorUnsupportedFormat, format)
	}
}

func writeJSON(writer io.Writer, command string, value any) error {
	encoded, marshalError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	if marshalError != nil {
		return fmt.Errorf(errorMarshalFormat, command, marshalError)
	}
	_, writeError := fmt.Fprintln(writer, string(encoded))
	return writeError
}
