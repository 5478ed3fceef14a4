package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopy(t *testing.T) {
	writeFailure := errors.New("xclip missing")
	testCases := []struct {
		name        string
		service     *Service
		expectError error
	}{
		{name: "unsupported", service: &Service{unsupported: true}, expectError: ErrUnsupported},
		{name: "write_failure", service: &Service{write: func(string) error { return writeFailure }}, expectError: writeFailure},
		{name: "success", service: &Service{write: func(string) error { return nil }}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			copyError := testCase.service.Copy("```\nroot\n```")
			if testCase.expectError == nil {
				if copyError != nil {
					t.Fatalf("unexpected error: %v", copyError)
				}
				return
			}
			if !errors.Is(copyError, testCase.expectError) {
				t.Fatalf("expected %v, got %v", testCase.expectError, copyError)
			}
		})
	}
}
