// Package utils contains general helper functions used across readmetree.
package utils

import (
	"path/filepath"
	"strings"
)

const listSeparator = ","

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// SplitList splits comma-separated values, trimming whitespace and dropping
// empty items. Each element of values may itself hold several comma-separated names.
func SplitList(values []string) []string {
	var result []string
	for _, value := range values {
		for _, item := range strings.Split(value, listSeparator) {
			trimmedItem := strings.TrimSpace(item)
			if trimmedItem == "" {
				continue
			}
			result = append(result, trimmedItem)
		}
	}
	return DeduplicatePatterns(result)
}

// RelativePathOrSelf calculates the slash-separated relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return "."
	}
	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}
