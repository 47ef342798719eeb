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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/diag"
	"jinr.ru/greenlab/go-gmsl/pkg/srv/control"
)

func TestEntryStatus(t *testing.T) {
	for _, tc := range []struct {
		name  string
		entry *control.RawEntry
		want  string
	}{
		{"not applicable", &control.RawEntry{NotApplicable: true, Error: "x"}, StatusNotApplicable},
		{"error", &control.RawEntry{Error: "bus"}, StatusError},
		{"abnormal", &control.RawEntry{Result: json.RawMessage(`{"diagErr":true}`)}, StatusAbnormal},
		{"ok", &control.RawEntry{Result: json.RawMessage(`{"diagErr":false,"id":182}`)}, StatusOK},
		{"no result", &control.RawEntry{}, StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := EntryStatus(tc.entry); got != tc.want {
				t.Errorf("EntryStatus() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestPrintReport(t *testing.T) {
	report := &diag.Report{
		DiagErr: true,
		Entries: []*diag.Entry{
			{Category: device.CategoryDeviceID, Result: &device.DeviceIDResult{ID: 0xB6, Part: "MAX96792A"}},
			{Category: device.CategoryLinkLock, Result: &device.LinkLockResult{Summary: device.Summary{DiagErr: true}}},
			{Category: device.CategoryTemperature, NotApplicable: true},
		},
	}
	raw, err := ToRawReport(report)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Entries) != 3 {
		t.Fatalf("got %d entries", len(raw.Entries))
	}

	var out bytes.Buffer
	if err := PrintReport(&out, raw, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("output:\n%s", out.String())
	}
	for i, want := range []string{StatusOK, StatusAbnormal, StatusNotApplicable} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want status %s", i, lines[i], want)
		}
	}
	if lines[3] != "Diagnostic result: ABNORMAL" {
		t.Errorf("verdict = %q", lines[3])
	}

	out.Reset()
	if err := PrintReport(&out, raw, true); err != nil {
		t.Fatal(err)
	}
	decoded := &control.RawReport{}
	if err := json.Unmarshal(out.Bytes(), decoded); err != nil || !decoded.DiagErr {
		t.Errorf("json output = %s, %v", out.String(), err)
	}
}
