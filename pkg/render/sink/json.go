package sink

import (
	"encoding/json"

	"github.com/matzehuels/karyoview/pkg/ideogram"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	caseID string
}

// WithJSONCase records the case identifier in the output.
func WithJSONCase(id string) JSONOption { return func(r *jsonRenderer) { r.caseID = id } }

type jsonOutput struct {
	CaseID string `json:"case_id,omitempty"`
	ideogram.Result
}

// RenderJSON exports the layout as indented JSON. The document decodes
// back into an [ideogram.Result] with [ReadJSON].
func RenderJSON(res ideogram.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(jsonOutput{CaseID: r.caseID, Result: res}, "", "  ")
}

// ReadJSON decodes a document written by [RenderJSON].
func ReadJSON(data []byte) (ideogram.Result, string, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ideogram.Result{}, "", err
	}
	return out.Result, out.CaseID, nil
}
