package io

import (
	"fmt"
	"os"

	"github.com/matzehuels/karyoview/pkg/ideogram"
	"github.com/matzehuels/karyoview/pkg/render/sink"
)

// ExportJSON writes a layout document for caseID to path.
func ExportJSON(res ideogram.Result, caseID, path string) error {
	data, err := sink.RenderJSON(res, sink.WithJSONCase(caseID))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ImportLayout reads a document written by [ExportJSON] and returns the
// layout with its case ID.
func ImportLayout(path string) (ideogram.Result, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ideogram.Result{}, "", fmt.Errorf("read %s: %w", path, err)
	}
	res, caseID, err := sink.ReadJSON(data)
	if err != nil {
		return ideogram.Result{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return res, caseID, nil
}
