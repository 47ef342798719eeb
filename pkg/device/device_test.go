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

package device

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validParam() *InitParam {
	return &InitParam{
		Name: "des0",
		Phys: []PhyConfig{
			{Index: 1, Enabled: true, NumLanes: 4, DataLanes: [2]uint8{0, 1}, MipiClk: 1500},
		},
		Pipes: []PipeConfig{
			{ID: PipeY, Enabled: true, Remaps: []RemapEntry{{FromDT: 0x1E, ToDT: 0x1E, ToPhy: 1}}},
		},
		LinkRates: []LinkRate{
			{Link: LinkA, Enabled: true, Rate: Rate6G},
			{Link: LinkB, Enabled: false},
		},
		RemoteControl: []Link{LinkA},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *InitParam)
		want   string
	}{
		{"valid", func(p *InitParam) {}, ""},
		{"phy index", func(p *InitParam) { p.Phys[0].Index = 4 }, "out of range"},
		{"phy twice", func(p *InitParam) { p.Phys = append(p.Phys, p.Phys[0]) }, "configured twice"},
		{"lane count", func(p *InitParam) { p.Phys[0].NumLanes = 5 }, "lane count"},
		{"disabled phy skips checks", func(p *InitParam) { p.Phys[0].Enabled = false; p.Phys[0].NumLanes = 9 }, ""},
		{"data lane", func(p *InitParam) { p.Phys[0].DataLanes[1] = 4 }, "data lane"},
		{"mipi clock low", func(p *InitParam) { p.Phys[0].MipiClk = 50 }, "mipi clock"},
		{"mipi clock high", func(p *InitParam) { p.Phys[0].MipiClk = 3200 }, "mipi clock"},
		{"unknown pipe", func(p *InitParam) { p.Pipes[0].ID = 0 }, "unknown pipe"},
		{"pipe twice", func(p *InitParam) { p.Pipes = append(p.Pipes, PipeConfig{ID: PipeY}) }, "configured twice"},
		{"stream id", func(p *InitParam) { p.Pipes[0].StreamID = 4 }, "stream id"},
		{"link id", func(p *InitParam) { p.Pipes[0].LinkID = 2 }, "link id"},
		{"too many remaps", func(p *InitParam) { p.Pipes[0].Remaps = make([]RemapEntry, MaxRemaps+1) }, "remaps"},
		{"remap vc", func(p *InitParam) { p.Pipes[0].Remaps[0].ToVC = 4 }, "virtual channel"},
		{"remap dt", func(p *InitParam) { p.Pipes[0].Remaps[0].FromDT = 0x40 }, "data type"},
		{"remap phy", func(p *InitParam) { p.Pipes[0].Remaps[0].ToPhy = 4 }, "destination phy"},
		{"rate code", func(p *InitParam) { p.LinkRates[0].Rate = 0 }, "rate code"},
		{"remote control link", func(p *InitParam) { p.RemoteControl = []Link{Link(2)} }, "remote control"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParam()
			tt.modify(p)
			err := p.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			var invalid ErrInvalidConfig
			if !errors.As(err, &invalid) || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLinkMaskAndRate(t *testing.T) {
	p := validParam()
	if p.LinkMask() != 0x01 {
		t.Errorf("LinkMask() = 0x%02x", p.LinkMask())
	}
	p.LinkRates[1].Enabled = true
	if p.LinkMask() != 0x03 {
		t.Errorf("LinkMask() with both links = 0x%02x", p.LinkMask())
	}
	if rate, ok := p.Rate(LinkA); !ok || rate != Rate6G {
		t.Errorf("Rate(A) = %d, %t", rate, ok)
	}
	p.LinkRates = p.LinkRates[:1]
	if _, ok := p.Rate(LinkB); ok {
		t.Error("Rate(B) reported for an unconfigured link")
	}
}

func TestIdentifierText(t *testing.T) {
	data, err := json.Marshal(struct {
		Link Link `json:"link"`
		Pipe Pipe `json:"pipe"`
	}{LinkB, PipeZ})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"link":"B","pipe":"Z"}` {
		t.Errorf("json = %s", data)
	}

	var decoded struct {
		Link Link `json:"link"`
		Pipe Pipe `json:"pipe"`
	}
	if err := json.Unmarshal([]byte(`{"link":"a","pipe":"y"}`), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Link != LinkA || decoded.Pipe != PipeY {
		t.Errorf("decoded = %+v", decoded)
	}
	if err := json.Unmarshal([]byte(`{"pipe":"X"}`), &decoded); err == nil {
		t.Error("unknown pipe accepted")
	}
	if PipeY.Slot() != 0 || PipeZ.Slot() != 1 || PortOf(3) != 1 {
		t.Error("slot or port arithmetic broken")
	}
}

func TestSummaryFlag(t *testing.T) {
	var s Summary
	s.Flag(false)
	if s.HasError() {
		t.Fatal("flag raised without an abnormal unit")
	}
	s.Flag(true)
	s.Flag(false)
	if !s.HasError() {
		t.Error("a later normal unit cleared the flag")
	}
}

func TestLineFaultStatusText(t *testing.T) {
	data, err := json.Marshal([]LineFaultStatus{LineFaultNormal, LineFaultLineOpen, LineFaultStatus(7)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["normal","line-open","line-to-line-short"]` {
		t.Errorf("json = %s", data)
	}
}

func TestUnsupported(t *testing.T) {
	var u Unsupported
	if _, err := u.Temperature(); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("Temperature() error = %v", err)
	}
	if r, err := u.LinkLock(); r != nil || !errors.Is(err, ErrNotApplicable) {
		t.Errorf("LinkLock() = %v, %v", r, err)
	}
}
