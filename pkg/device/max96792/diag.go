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
	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

// Every diagnostic below reads only enabled units and leaves the entries of
// disabled units at their zero value. A transport error stops the category
// and the partial result is returned with it.

// DeviceID ...
func (d *Device) DeviceID() (*device.DeviceIDResult, error) {
	res := &device.DeviceIDResult{}
	id, err := gmsl.Read(d.t, RegMap[RegDevID], 0xFF)
	if err != nil {
		return res, err
	}
	res.ID = id
	part, ok := PartNames[id]
	res.Part = part
	res.Flag(!ok)
	return res, nil
}

// DeviceRevision compares DEV_REV against the revision read at creation.
func (d *Device) DeviceRevision() (*device.DeviceRevisionResult, error) {
	res := &device.DeviceRevisionResult{Expected: d.revision}
	rev, err := gmsl.Read(d.t, RegMap[RegDevRev], DevRevMask)
	if err != nil {
		return res, err
	}
	res.Revision = rev
	res.Flag(rev != d.revision)
	return res, nil
}

// PartConfig reads back the configuration of every enabled pipe and PHY.
// It reports an error when an enabled remap entry targets a PHY in standby.
func (d *Device) PartConfig() (*device.PartConfigResult, error) {
	res := &device.PartConfigResult{}
	out, err := gmsl.Field{Addr: RegMap[RegBacktop12], Mask: Backtop12BitCSIOut}.Set(d.t)
	if err != nil {
		return res, err
	}
	res.MipiOutEnabled = out

	phys, err := d.PhysEnabled()
	if err != nil {
		return res, err
	}
	for i, enabled := range phys {
		if !enabled {
			continue
		}
		if err := d.readPhyConfig(i, &res.Phys[i]); err != nil {
			return res, err
		}
	}
	for port := 0; port < device.PortCount; port++ {
		if !phys[2*port] && !phys[2*port+1] {
			continue
		}
		released, err := gmsl.Field{Addr: dpllReset(2 * port), Mask: DpllBitSoftRstN}.Set(d.t)
		if err != nil {
			return res, err
		}
		res.DpllReleased[port] = released
	}

	pipes, err := d.PipesEnabled()
	if err != nil {
		return res, err
	}
	for _, pipe := range device.Pipes {
		if !pipes[pipe.Slot()] {
			continue
		}
		rb := &res.Pipes[pipe.Slot()]
		if err := d.readPipeConfig(pipe, rb); err != nil {
			return res, err
		}
		for i, remap := range rb.Remaps {
			if remap.Enabled && !rb.Tunnel && !phys[remap.ToPhy] {
				log.Warning("Pipe %s remap %d targets phy %d in standby", pipe, i, remap.ToPhy)
				res.Flag(true)
			}
		}
	}
	return res, nil
}

func (d *Device) readPhyConfig(phy int, rb *device.PhyReadback) error {
	rb.Checked = true
	cphy, err := gmsl.Field{Addr: mipiTx10(phy), Mask: MipiTx10BitCPhyEn}.Set(d.t)
	if err != nil {
		return err
	}
	rb.CPhy = cphy
	lanes, err := gmsl.Read(d.t, mipiTx10(phy), MipiTx10MaskLaneCnt)
	if err != nil {
		return err
	}
	rb.NumLanes = lanes + 1
	if rb.LaneMap, err = laneMap.Field(phy).Read(d.t); err != nil {
		return err
	}
	if rb.Polarity, err = lanePolarity.Field(phy).Read(d.t); err != nil {
		return err
	}
	freq, err := gmsl.Read(d.t, backtop22(phy), Backtop22MaskFreq)
	if err != nil {
		return err
	}
	rb.FrequencyMbps = int(freq) * FrequencyStepMbps
	return nil
}

func (d *Device) readPipeConfig(pipe device.Pipe, rb *device.PipeReadback) error {
	rb.Checked = true
	tunnel, err := gmsl.Field{Addr: mipiTx52(pipe), Mask: MipiTx52BitTunEn}.Set(d.t)
	if err != nil {
		return err
	}
	rb.Tunnel = tunnel
	if rb.StreamID, err = streamSelect(pipe).Read(d.t); err != nil {
		return err
	}
	table := remapTableOf(pipe)
	for i := range rb.Remaps {
		r := &rb.Remaps[i]
		if r.Enabled, err = table.enable.Field(i).Set(d.t); err != nil {
			return err
		}
		src, err := gmsl.Read(d.t, table.src(i), 0xFF)
		if err != nil {
			return err
		}
		r.FromDT, r.FromVC = src&0x3F, src>>6
		dst, err := gmsl.Read(d.t, table.dst(i), 0xFF)
		if err != nil {
			return err
		}
		r.ToDT, r.ToVC = dst&0x3F, dst>>6
		if r.ToPhy, err = table.dstPhy.Field(i).Read(d.t); err != nil {
			return err
		}
	}
	return nil
}
