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
	"fmt"
)

const (
	// MinMipiClk and MaxMipiClk bound the per-lane rate (Mbps) that fits the
	// 5-bit predefined frequency field in units of 100 Mbps.
	MinMipiClk = 100
	MaxMipiClk = 3100
)

// PhyConfig describes one MIPI PHY lane group.
type PhyConfig struct {
	Index    int  `json:"index"`
	Enabled  bool `json:"enabled"`
	CPhy     bool `json:"cphy,omitempty"`
	NumLanes int  `json:"numLanes"`
	// DataLanes maps the two logical lanes of the PHY to pads, 2 bits each.
	DataLanes [2]uint8 `json:"dataLanes"`
	// LanePolarities inverts lane 0, lane 1 and, for D-PHY, the clock lane.
	LanePolarities [3]bool `json:"lanePolarities"`
	// MipiClk is the lane rate in Mbps.
	MipiClk     int  `json:"mipiClk"`
	AltMemMap8  bool `json:"altMemMap8,omitempty"`
	AltMemMap10 bool `json:"altMemMap10,omitempty"`
	AltMemMap12 bool `json:"altMemMap12,omitempty"`
	Alt2MemMap8 bool `json:"alt2MemMap8,omitempty"`
}

// RemapEntry maps an incoming (DT, VC) pair to an outgoing pair and a PHY.
type RemapEntry struct {
	FromDT uint8 `json:"fromDT"`
	FromVC uint8 `json:"fromVC"`
	ToDT   uint8 `json:"toDT"`
	ToVC   uint8 `json:"toVC"`
	ToPhy  uint8 `json:"toPhy"`
}

// PipeConfig describes one video pipe.
type PipeConfig struct {
	ID         Pipe  `json:"id"`
	Enabled    bool  `json:"enabled"`
	LinkID     uint8 `json:"linkID"`
	StreamID   uint8 `json:"streamID"`
	AutoSelect bool  `json:"autoSelect,omitempty"`

	Bpp8Dbl      bool `json:"bpp8Dbl,omitempty"`
	Bpp8DblMode  bool `json:"bpp8DblMode,omitempty"`
	Bpp10Dbl     bool `json:"bpp10Dbl,omitempty"`
	Bpp10DblMode bool `json:"bpp10DblMode,omitempty"`
	Bpp12Dbl     bool `json:"bpp12Dbl,omitempty"`
	Bpp12DblMode bool `json:"bpp12DblMode,omitempty"`

	// TunnelDest is the CSI controller the pipe forwards to in tunnel mode.
	TunnelDest uint8        `json:"tunnelDest,omitempty"`
	Remaps     []RemapEntry `json:"remaps,omitempty"`
}

// LinkRate selects the receive rate of one link.
type LinkRate struct {
	Link    Link   `json:"link"`
	Enabled bool   `json:"enabled"`
	Rate    RxRate `json:"rate"`
}

// InitParam is everything a part driver needs to bring a deserializer up.
type InitParam struct {
	Name       string       `json:"name"`
	Index      int          `json:"index"`
	TunnelMode bool         `json:"tunnelMode,omitempty"`
	Phys       []PhyConfig  `json:"phys,omitempty"`
	Pipes      []PipeConfig `json:"pipes,omitempty"`
	LinkRates  []LinkRate   `json:"linkRates,omitempty"`
	// RemoteControl lists the links whose remote control channel is enabled.
	RemoteControl []Link `json:"remoteControl,omitempty"`
}

// LinkMask returns the LINK_CFG style mask of the enabled links.
func (p *InitParam) LinkMask() uint8 {
	var mask uint8
	for _, lr := range p.LinkRates {
		if lr.Enabled && lr.Link.Valid() {
			mask |= lr.Link.Bit()
		}
	}
	return mask
}

// Rate returns the configured rate of a link.
func (p *InitParam) Rate(link Link) (RxRate, bool) {
	for _, lr := range p.LinkRates {
		if lr.Link == link {
			return lr.Rate, true
		}
	}
	return 0, false
}

// Validate checks every field before anything is written to hardware.
func (p *InitParam) Validate() error {
	seenPhy := map[int]bool{}
	for _, phy := range p.Phys {
		if phy.Index < 0 || phy.Index >= PhyCount {
			return ErrInvalidConfig{What: fmt.Sprintf("phy index %d out of range", phy.Index)}
		}
		if seenPhy[phy.Index] {
			return ErrInvalidConfig{What: fmt.Sprintf("phy %d configured twice", phy.Index)}
		}
		seenPhy[phy.Index] = true
		if !phy.Enabled {
			continue
		}
		if phy.NumLanes < 1 || phy.NumLanes > 4 {
			return ErrInvalidConfig{What: fmt.Sprintf("phy %d: lane count %d not in 1..4", phy.Index, phy.NumLanes)}
		}
		for i, lane := range phy.DataLanes {
			if lane > 3 {
				return ErrInvalidConfig{What: fmt.Sprintf("phy %d: data lane %d maps to pad %d", phy.Index, i, lane)}
			}
		}
		if phy.MipiClk < MinMipiClk || phy.MipiClk > MaxMipiClk {
			return ErrInvalidConfig{What: fmt.Sprintf("phy %d: mipi clock %d Mbps not in %d..%d", phy.Index, phy.MipiClk, MinMipiClk, MaxMipiClk)}
		}
	}
	seenPipe := map[Pipe]bool{}
	for _, pipe := range p.Pipes {
		if !pipe.ID.Valid() {
			return ErrInvalidConfig{What: fmt.Sprintf("unknown pipe %d", int(pipe.ID))}
		}
		if seenPipe[pipe.ID] {
			return ErrInvalidConfig{What: fmt.Sprintf("pipe %s configured twice", pipe.ID)}
		}
		seenPipe[pipe.ID] = true
		if !pipe.Enabled {
			continue
		}
		if pipe.StreamID > 3 {
			return ErrInvalidConfig{What: fmt.Sprintf("pipe %s: stream id %d not in 0..3", pipe.ID, pipe.StreamID)}
		}
		if int(pipe.LinkID) >= LinkCount {
			return ErrInvalidConfig{What: fmt.Sprintf("pipe %s: link id %d out of range", pipe.ID, pipe.LinkID)}
		}
		if int(pipe.TunnelDest) >= PhyCount {
			return ErrInvalidConfig{What: fmt.Sprintf("pipe %s: tunnel destination %d out of range", pipe.ID, pipe.TunnelDest)}
		}
		if len(pipe.Remaps) > MaxRemaps {
			return ErrInvalidConfig{What: fmt.Sprintf("pipe %s: %d remaps, at most %d", pipe.ID, len(pipe.Remaps), MaxRemaps)}
		}
		for i, r := range pipe.Remaps {
			if r.FromVC > 3 || r.ToVC > 3 {
				return ErrInvalidConfig{What: fmt.Sprintf("pipe %s remap %d: virtual channel out of range", pipe.ID, i)}
			}
			if r.FromDT > 0x3F || r.ToDT > 0x3F {
				return ErrInvalidConfig{What: fmt.Sprintf("pipe %s remap %d: data type out of range", pipe.ID, i)}
			}
			if int(r.ToPhy) >= PhyCount {
				return ErrInvalidConfig{What: fmt.Sprintf("pipe %s remap %d: destination phy %d out of range", pipe.ID, i, r.ToPhy)}
			}
		}
	}
	for _, lr := range p.LinkRates {
		if !lr.Link.Valid() {
			return ErrInvalidConfig{What: fmt.Sprintf("unknown link %d", int(lr.Link))}
		}
		if lr.Enabled && (lr.Rate < Rate3G || lr.Rate > Rate12G) {
			return ErrInvalidConfig{What: fmt.Sprintf("link %s: rate code %d", lr.Link, lr.Rate)}
		}
	}
	for _, link := range p.RemoteControl {
		if !link.Valid() {
			return ErrInvalidConfig{What: fmt.Sprintf("remote control on unknown link %d", int(link))}
		}
	}
	return nil
}
