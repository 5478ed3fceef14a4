// Package types defines constants shared by the readmetree CLI packages.
package types

const (
	CommandUpdate = "update"
	CommandTree   = "tree"
	CommandConfig = "config"

	FormatRaw  = "raw"
	FormatJSON = "json"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}
