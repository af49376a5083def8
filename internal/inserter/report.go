package inserter

import (
	"fmt"
	"strings"
)

// Report aggregates the insertion outcome for one file, keyed by definition
// identity. A definition surfaces in exactly one of three buckets: generated
// and inserted, generated but not inserted (match or splice failed), or
// present in code with nothing generated for it.
type Report struct {
	File         string   `json:"file"`
	CodeDefs     int      `json:"code_defs"`
	Generated    int      `json:"generated"`
	Inserted     []string `json:"inserted,omitempty"`
	NotInserted  []string `json:"not_inserted,omitempty"`
	NotGenerated []string `json:"not_generated,omitempty"`
}

func NewReport(file string) *Report {
	return &Report{File: file}
}

// Complete reports whether every definition in the file received a docstring.
func (r *Report) Complete() bool {
	return len(r.Inserted) == r.CodeDefs
}

// Summary renders the per-file coverage lines shown to the user.
func (r *Report) Summary() string {
	var sb strings.Builder
	if !r.Complete() {
		fmt.Fprintf(&sb, "    %d classes/functions in file\n", r.CodeDefs)
		fmt.Fprintf(&sb, "    %d docstrings generated\n", r.Generated)
		if len(r.NotGenerated) > 0 {
			fmt.Fprintf(&sb, "    %d docstrings not generated: %s\n", len(r.NotGenerated), strings.Join(r.NotGenerated, ", "))
		}
		if len(r.NotInserted) > 0 {
			fmt.Fprintf(&sb, "    %d of generated %d docstrings not inserted: %s\n", len(r.NotInserted), r.Generated, strings.Join(r.NotInserted, ", "))
		}
	}
	fmt.Fprintf(&sb, " -> %d/%d docstrings generated and inserted", len(r.Inserted), r.CodeDefs)
	return sb.String()
}

// Totals is the aggregate over a whole run.
type Totals struct {
	Files        int
	CodeDefs     int
	Generated    int
	Inserted     int
	NotInserted  int
	NotGenerated int
}

func Sum(reports []*Report) Totals {
	var t Totals
	for _, r := range reports {
		t.Files++
		t.CodeDefs += r.CodeDefs
		t.Generated += r.Generated
		t.Inserted += len(r.Inserted)
		t.NotInserted += len(r.NotInserted)
		t.NotGenerated += len(r.NotGenerated)
	}
	return t
}
