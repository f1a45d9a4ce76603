package observ

import (
	"encoding/json"
	"fmt"

	"macplugins/internal/diag"
	"macplugins/internal/source"
)

type timingNote struct {
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
	Report
}

// Diagnostic упаковывает отчёт в OBS6001: сообщение для людей, а в
// единственной заметке тот же отчёт в JSON для машин.
func (r Report) Diagnostic(kind, path string) diag.Diagnostic {
	msg := fmt.Sprintf("timings (%s): total %.2f ms", kind, r.TotalMS)
	if path != "" {
		msg += ", " + path
	}
	d := diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: msg}
	if data, err := json.Marshal(timingNote{Kind: kind, Path: path, Report: r}); err == nil {
		d.Notes = []diag.Note{{Span: source.Span{}, Msg: string(data)}}
	}
	return d
}
