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

// Category names a diagnostic category.
type Category string

const (
	CategoryDeviceID           Category = "device_id"
	CategoryDeviceRevision     Category = "device_revision"
	CategoryPartConfig         Category = "part_config"
	CategoryLinkLock           Category = "link_lock"
	CategoryDecodeError        Category = "decode_error"
	CategoryIdleError          Category = "idle_error"
	CategoryLineFault          Category = "line_fault"
	CategoryMaxRetransmission  Category = "max_retransmission"
	CategoryMipiPacketCount    Category = "mipi_packet_count"
	CategoryLineMemoryOverflow Category = "line_memory_overflow"
	CategoryCRCError           Category = "crc_error"
	CategoryStreamID           Category = "stream_id"
	CategoryRemoteError        Category = "remote_error"
	CategoryEOMError           Category = "eom_error"
	CategoryVideoLock          Category = "video_lock"
	CategoryVideoBlockLength   Category = "video_block_length"
	CategoryTemperature        Category = "temperature"
	CategorySupplyMonitor      Category = "supply_monitor"
)

// Result is implemented by every diagnostic result.
type Result interface {
	HasError() bool
}

// Summary carries the per-category error flag. It is set when at least one
// checked unit is abnormal.
type Summary struct {
	DiagErr bool `json:"diagErr"`
}

func (s Summary) HasError() bool {
	return s.DiagErr
}

// Flag raises the category error flag when abnormal is true.
func (s *Summary) Flag(abnormal bool) {
	s.DiagErr = s.DiagErr || abnormal
}

// Per-unit entries below carry Checked; the zero value means the unit was
// disabled and nothing was read for it.

type DeviceIDResult struct {
	Summary
	ID   uint8  `json:"id"`
	Part string `json:"part,omitempty"`
}

type DeviceRevisionResult struct {
	Summary
	Revision uint8 `json:"revision"`
	Expected uint8 `json:"expected"`
}

type RemapReadback struct {
	Enabled bool  `json:"enabled"`
	FromDT  uint8 `json:"fromDT"`
	FromVC  uint8 `json:"fromVC"`
	ToDT    uint8 `json:"toDT"`
	ToVC    uint8 `json:"toVC"`
	ToPhy   uint8 `json:"toPhy"`
}

type PipeReadback struct {
	Checked  bool                     `json:"checked"`
	Tunnel   bool                     `json:"tunnel"`
	StreamID uint8                    `json:"streamID"`
	Remaps   [MaxRemaps]RemapReadback `json:"remaps"`
}

type PhyReadback struct {
	Checked       bool  `json:"checked"`
	CPhy          bool  `json:"cphy"`
	NumLanes      uint8 `json:"numLanes"`
	LaneMap       uint8 `json:"laneMap"`
	Polarity      uint8 `json:"polarity"`
	FrequencyMbps int   `json:"frequencyMbps"`
}

type PartConfigResult struct {
	Summary
	MipiOutEnabled bool                    `json:"mipiOutEnabled"`
	Pipes          [PipeCount]PipeReadback `json:"pipes"`
	Phys           [PhyCount]PhyReadback   `json:"phys"`
	DpllReleased   [PortCount]bool         `json:"dpllReleased"`
}

type LinkLock struct {
	Checked bool `json:"checked"`
	Locked  bool `json:"locked"`
}

type LinkLockResult struct {
	Summary
	Links [LinkCount]LinkLock `json:"links"`
}

type ErrorCount struct {
	Checked bool  `json:"checked"`
	Flag    bool  `json:"flag"`
	Count   uint8 `json:"count"`
}

type DecodeErrorResult struct {
	Summary
	Links [LinkCount]ErrorCount `json:"links"`
}

type IdleErrorResult struct {
	Summary
	Links [LinkCount]ErrorCount `json:"links"`
}

// LineFaultStatus is the decoded state of a line-fault monitor.
type LineFaultStatus uint8

const (
	LineFaultShortToBattery LineFaultStatus = iota
	LineFaultShortToGround
	LineFaultNormal
	LineFaultLineOpen
	LineFaultLineToLineShort
)

func (s LineFaultStatus) String() string {
	switch s {
	case LineFaultShortToBattery:
		return "short-to-battery"
	case LineFaultShortToGround:
		return "short-to-ground"
	case LineFaultNormal:
		return "normal"
	case LineFaultLineOpen:
		return "line-open"
	}
	return "line-to-line-short"
}

func (s LineFaultStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type LineFaultMonitor struct {
	Checked bool            `json:"checked"`
	Status  LineFaultStatus `json:"status"`
}

type LineFaultResult struct {
	Summary
	Interrupt bool                             `json:"interrupt"`
	Monitors  [LineFaultCount]LineFaultMonitor `json:"monitors"`
}

// ArqChannel is a retransmission-protected control channel.
type ArqChannel int

const (
	ArqMain ArqChannel = iota
	ArqGPIO
	ArqPassThrough1
	ArqPassThrough2
	ArqChannelCount = 4
)

type Retransmission struct {
	Err   bool  `json:"err"`
	Count uint8 `json:"count"`
}

type MaxRetransmissionLink struct {
	Checked  bool                            `json:"checked"`
	Flag     bool                            `json:"flag"`
	Channels [ArqChannelCount]Retransmission `json:"channels"`
}

type MaxRetransmissionResult struct {
	Summary
	Links [LinkCount]MaxRetransmissionLink `json:"links"`
}

type PacketCount struct {
	Checked bool `json:"checked"`
	Sum     uint `json:"sum"`
	NotSent bool `json:"notSent"`
}

type MipiPacketCountResult struct {
	Summary
	Controllers [PhyCount]PacketCount `json:"controllers"`
	Phys        [PhyCount]PacketCount `json:"phys"`
}

type PipeFlag struct {
	Checked bool `json:"checked"`
	Set     bool `json:"set"`
}

type LineMemoryOverflowResult struct {
	Summary
	Pipes [PipeCount]PipeFlag `json:"pipes"`
}

type CRCStatus struct {
	Checked bool `json:"checked"`
	Enabled bool `json:"enabled"`
	Err     bool `json:"err"`
}

type CRCErrorResult struct {
	Summary
	Pipes [PipeCount]CRCStatus `json:"pipes"`
}

type StreamIDStatus struct {
	Checked bool  `json:"checked"`
	ID      uint8 `json:"id"`
	Valid   bool  `json:"valid"`
}

type StreamIDResult struct {
	Summary
	Pipes [PipeCount]StreamIDStatus `json:"pipes"`
}

type RemoteError struct {
	Checked        bool `json:"checked"`
	ControlChannel bool `json:"controlChannel"`
	Flag           bool `json:"flag"`
}

type RemoteErrorResult struct {
	Summary
	Links [LinkCount]RemoteError `json:"links"`
}

type LinkFlag struct {
	Checked bool `json:"checked"`
	Set     bool `json:"set"`
}

type EOMErrorResult struct {
	Summary
	Links [LinkCount]LinkFlag `json:"links"`
}

type VideoLock struct {
	Checked bool `json:"checked"`
	Locked  bool `json:"locked"`
}

type VideoLockResult struct {
	Summary
	Pipes [PipeCount]VideoLock `json:"pipes"`
}

type VideoBlockLengthResult struct {
	Summary
	Pipes [PipeCount]PipeFlag `json:"pipes"`
}

type TemperatureResult struct {
	Summary
	Celsius int `json:"celsius"`
}

type SupplyMonitorResult struct {
	Summary
	Millivolts []int `json:"millivolts"`
}
