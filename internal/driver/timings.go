package driver

import (
	"encoding/json"
	"fmt"

	"glean/internal/diag"
	"glean/internal/observ"
	"glean/internal/source"
)

// TimingDiagnostic renders a timer report as an info diagnostic whose single
// note carries the JSON payload, so every output format can show it.
func TimingDiagnostic(kind string, report observ.Report) (diag.Diagnostic, bool) {
	if len(report.Phases) == 0 {
		return diag.Diagnostic{}, false
	}
	if kind == "" {
		kind = "check"
	}
	payload := struct {
		Kind string `json:"kind"`
		observ.Report
	}{Kind: kind, Report: report}
	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, false
	}
	return diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS),
		Primary:  source.Span{},
		Notes:    []diag.Note{{Span: source.Span{}, Msg: string(data)}},
	}, true
}

// AppendTimings adds the timing diagnostic to bag, growing it when full.
func AppendTimings(bag *diag.Bag, kind string, report observ.Report) {
	if bag == nil {
		return
	}
	d, ok := TimingDiagnostic(kind, report)
	if !ok || bag.Add(d) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(d)
	bag.Merge(overflow)
}
