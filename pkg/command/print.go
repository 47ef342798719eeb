/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package command

import (
	"encoding/json"
	"fmt"
	"io"

	"jinr.ru/greenlab/go-gmsl/pkg/diag"
	"jinr.ru/greenlab/go-gmsl/pkg/srv/control"
)

const (
	StatusOK            = "OK"
	StatusAbnormal      = "ABNORMAL"
	StatusNotApplicable = "N/A"
	StatusError         = "ERROR"
)

// ToRawReport converts a locally produced report to the form the API returns.
func ToRawReport(report *diag.Report) (*control.RawReport, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	raw := &control.RawReport{}
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// EntryStatus classifies an entry for display.
func EntryStatus(entry *control.RawEntry) string {
	switch {
	case entry.NotApplicable:
		return StatusNotApplicable
	case entry.Error != "":
		return StatusError
	}
	var summary struct {
		DiagErr bool `json:"diagErr"`
	}
	if len(entry.Result) > 0 {
		json.Unmarshal(entry.Result, &summary)
	}
	if summary.DiagErr {
		return StatusAbnormal
	}
	return StatusOK
}

// PrintEntry writes one line per entry: category, status and detail.
func PrintEntry(out io.Writer, entry *control.RawEntry) {
	status := EntryStatus(entry)
	switch status {
	case StatusNotApplicable:
		fmt.Fprintf(out, "%-22s %s\n", entry.Category, status)
	case StatusError:
		fmt.Fprintf(out, "%-22s %-9s %s %s\n", entry.Category, status, entry.Error, entry.Result)
	default:
		fmt.Fprintf(out, "%-22s %-9s %s\n", entry.Category, status, entry.Result)
	}
}

// PrintReport writes every entry followed by the overall verdict.
func PrintReport(out io.Writer, report *control.RawReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	for _, entry := range report.Entries {
		PrintEntry(out, entry)
	}
	verdict := StatusOK
	if report.DiagErr {
		verdict = StatusAbnormal
	}
	if report.Failed {
		verdict += ", some categories failed"
	}
	fmt.Fprintf(out, "Diagnostic result: %s\n", verdict)
	return nil
}
