package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/temirov/readmetree/internal/treerender"
	"github.com/temirov/readmetree/internal/types"
	"github.com/temirov/readmetree/internal/workspace"
)

func sampleReport(dryRun bool) workspace.Report {
	return workspace.Report{
		Root:   "/org",
		DryRun: dryRun,
		Documents: []workspace.DocumentResult{
			{Name: "inker", Kind: workspace.DocumentKindRepository, Changed: true},
			{Name: "letterer", Kind: workspace.DocumentKindRepository},
			{Name: ".github/README.md", Kind: workspace.DocumentKindOrganization, Changed: true},
		},
		ChangedCount: 2,
	}
}

func TestWriteReportRaw(t *testing.T) {
	testCases := []struct {
		name     string
		dryRun   bool
		expected string
	}{
		{
			name:   "write",
			dryRun: false,
			expected: "[WRITE] inker README updated\n" +
				"[WRITE] letterer README unchanged\n" +
				"[WRITE] .github/README.md updated\n" +
				"[DONE] Files changed: 2\n",
		},
		{
			name:   "dry_run",
			dryRun: true,
			expected: "[DRY] inker README updated\n" +
				"[DRY] letterer README unchanged\n" +
				"[DRY] .github/README.md updated\n" +
				"[DONE] Files changed: 2\n",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := WriteReport(&buffer, types.FormatRaw, sampleReport(testCase.dryRun)); err != nil {
				t.Fatalf("WriteReport error: %v", err)
			}
			if buffer.String() != testCase.expected {
				t.Fatalf("unexpected output:\n%s", buffer.String())
			}
		})
	}
}

func TestWriteReportJSON(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteReport(&buffer, types.FormatJSON, sampleReport(false)); err != nil {
		t.Fatalf("WriteReport error: %v", err)
	}
	var decoded workspace.Report
	if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ChangedCount != 2 || len(decoded.Documents) != 3 || decoded.Documents[2].Kind != workspace.DocumentKindOrganization {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
}

func TestWriteTree(t *testing.T) {
	tree := treerender.Tree{
		RootName: "project",
		Lines:    []treerender.Line{{Prefix: "└── ", Name: "main.go"}},
		Root: &treerender.Entry{
			Name:        "project",
			Path:        "/project",
			IsDirectory: true,
			Children:    []*treerender.Entry{{Name: "main.go", Path: "/project/main.go"}},
		},
	}

	var rawBuffer bytes.Buffer
	if err := WriteTree(&rawBuffer, types.FormatRaw, tree); err != nil {
		t.Fatalf("WriteTree raw error: %v", err)
	}
	if rawBuffer.String() != "```\nproject\n└── main.go\n```\n" {
		t.Fatalf("unexpected raw tree:\n%s", rawBuffer.String())
	}

	var jsonBuffer bytes.Buffer
	if err := WriteTree(&jsonBuffer, types.FormatJSON, tree); err != nil {
		t.Fatalf("WriteTree json error: %v", err)
	}
	var decoded treerender.Entry
	if err := json.Unmarshal(jsonBuffer.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Name != "project" || len(decoded.Children) != 1 || decoded.Children[0].Name != "main.go" {
		t.Fatalf("unexpected decoded tree: %+v", decoded)
	}

	if err := WriteTree(&jsonBuffer, "xml", tree); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
