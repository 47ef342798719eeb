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

package max96792

import (
	"jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

// MipiPacketCount samples the packet counters of every enabled CSI controller
// and PHY. A counter that stays at zero over all samples has not sent packets.
func (d *Device) MipiPacketCount() (*device.MipiPacketCountResult, error) {
	res := &device.MipiPacketCountResult{}
	phys, err := d.PhysEnabled()
	if err != nil {
		return res, err
	}
	sampled := false
	for i, enabled := range phys {
		if enabled {
			res.Controllers[i].Checked = true
			res.Phys[i].Checked = true
			sampled = true
		}
	}
	if !sampled {
		return res, nil
	}
	for s := 0; s < PacketCountSamples; s++ {
		if s > 0 {
			d.sleep(PacketSampleDelay)
		}
		for i, enabled := range phys {
			if !enabled {
				continue
			}
			csi, err := gmsl.Read(d.t, CSIPacketCountBase+uint16(i), 0xFF)
			if err != nil {
				return res, err
			}
			res.Controllers[i].Sum += uint(csi)
			phy, err := gmsl.Read(d.t, PhyPacketCountBase+uint16(i), 0xFF)
			if err != nil {
				return res, err
			}
			res.Phys[i].Sum += uint(phy)
		}
	}
	for i := range phys {
		for _, pc := range []*device.PacketCount{&res.Controllers[i], &res.Phys[i]} {
			if pc.Checked && pc.Sum == 0 {
				pc.NotSent = true
				res.Flag(true)
			}
		}
	}
	return res, nil
}

// LineMemoryOverflow reads the shared overflow register once when any pipe
// is enabled.
func (d *Device) LineMemoryOverflow() (*device.LineMemoryOverflowResult, error) {
	res := &device.LineMemoryOverflowResult{}
	pipes, err := d.PipesEnabled()
	if err != nil {
		return res, err
	}
	if !pipes[device.PipeY.Slot()] && !pipes[device.PipeZ.Slot()] {
		return res, nil
	}
	v, err := gmsl.Read(d.t, RegMap[RegBacktop11], 0xFF)
	if err != nil {
		return res, err
	}
	for _, pipe := range device.Pipes {
		if !pipes[pipe.Slot()] {
			continue
		}
		set := v&(1<<uint(pipe)) != 0
		res.Pipes[pipe.Slot()] = device.PipeFlag{Checked: true, Set: set}
		res.Flag(set)
	}
	return res, nil
}

// CRCError reports line CRC errors of enabled pipes that have CRC checking on.
func (d *Device) CRCError() (*device.CRCErrorResult, error) {
	res := &device.CRCErrorResult{}
	pipes, err := d.PipesEnabled()
	if err != nil {
		return res, err
	}
	for _, pipe := range device.Pipes {
		if !pipes[pipe.Slot()] {
			continue
		}
		entry := &res.Pipes[pipe.Slot()]
		entry.Checked = true
		rx0 := videoRx(pipe, 0)
		if entry.Enabled, err = (gmsl.Field{Addr: rx0, Mask: VideoRx0BitLineCRCEn}).Set(d.t); err != nil {
			return res, err
		}
		if !entry.Enabled {
			continue
		}
		if entry.Err, err = (gmsl.Field{Addr: rx0, Mask: VideoRx0BitLineCRCErr}).Set(d.t); err != nil {
			return res, err
		}
		res.Flag(entry.Err)
	}
	return res, nil
}

// StreamID reports the stream id received on every enabled pipe.
func (d *Device) StreamID() (*device.StreamIDResult, error) {
	res := &device.StreamIDResult{}
	pipes, err := d.PipesEnabled()
	if err != nil {
		return res, err
	}
	for _, pipe := range device.Pipes {
		if !pipes[pipe.Slot()] {
			continue
		}
		id, err := gmsl.Read(d.t, videoRx(pipe, 6), VideoRx6MaskStreamID)
		if err != nil {
			return res, err
		}
		valid := id <= 3
		res.Pipes[pipe.Slot()] = device.StreamIDStatus{Checked: true, ID: id, Valid: valid}
		res.Flag(!valid)
	}
	return res, nil
}

func (d *Device) pipeFlags(mask uint8) ([device.PipeCount]device.PipeFlag, error) {
	var out [device.PipeCount]device.PipeFlag
	pipes, err := d.PipesEnabled()
	if err != nil {
		return out, err
	}
	for _, pipe := range device.Pipes {
		if !pipes[pipe.Slot()] {
			continue
		}
		set, err := gmsl.Field{Addr: videoRx(pipe, 8), Mask: mask}.Set(d.t)
		if err != nil {
			return out, err
		}
		out[pipe.Slot()] = device.PipeFlag{Checked: true, Set: set}
	}
	return out, nil
}

// VideoLock ...
func (d *Device) VideoLock() (*device.VideoLockResult, error) {
	res := &device.VideoLockResult{}
	flags, err := d.pipeFlags(VideoRx8BitVidLock)
	for i, f := range flags {
		if !f.Checked {
			continue
		}
		res.Pipes[i] = device.VideoLock{Checked: true, Locked: f.Set}
		res.Flag(!f.Set)
	}
	return res, err
}

// VideoBlockLength ...
func (d *Device) VideoBlockLength() (*device.VideoBlockLengthResult, error) {
	res := &device.VideoBlockLengthResult{}
	flags, err := d.pipeFlags(VideoRx8BitBlkLenErr)
	res.Pipes = flags
	for _, f := range flags {
		res.Flag(f.Set)
	}
	return res, err
}
