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

// ConfigurePhy programs one PHY and takes it out of standby. Disabled PHYs
// are left alone. The steps run in a fixed order and the first failing
// register access aborts the rest.
func (d *Device) ConfigurePhy(cfg device.PhyConfig) error {
	if !cfg.Enabled {
		return nil
	}
	i := cfg.Index
	if i < 0 || i >= device.PhyCount || cfg.NumLanes < 1 || cfg.NumLanes > 4 {
		return device.ErrNotSupported
	}
	log.Debug("Configuring phy %d: lanes %d cphy %t rate %d Mbps", i, cfg.NumLanes, cfg.CPhy, cfg.MipiClk)

	if cfg.CPhy {
		if err := gmsl.Update(d.t, mipiTx10(i), 1, MipiTx10BitCPhyEn); err != nil {
			return err
		}
	}
	if err := gmsl.Update(d.t, mipiTx10(i), uint8(cfg.NumLanes-1), MipiTx10MaskLaneCnt); err != nil {
		return err
	}
	if err := d.setLaneMap(cfg); err != nil {
		return err
	}
	if err := d.setLanePolarity(cfg); err != nil {
		return err
	}
	if !cfg.CPhy {
		if err := d.setDeskew(i, cfg.MipiClk > DeskewThreshold); err != nil {
			return err
		}
	}
	if err := d.setPhyRate(i, cfg.MipiClk); err != nil {
		return err
	}
	if !d.param.TunnelMode {
		if err := d.setAltMemMap(cfg); err != nil {
			return err
		}
	}
	return d.enablePhy(i)
}

func (d *Device) setLaneMap(cfg device.PhyConfig) error {
	v := (cfg.DataLanes[0] & 0x03) | (cfg.DataLanes[1]&0x03)<<2
	return laneMap.Field(cfg.Index).Update(d.t, v)
}

// setLanePolarity writes lane 0, lane 1 and the clock lane polarity. C-PHY
// has no clock lane so only two bits are written.
func (d *Device) setLanePolarity(cfg device.PhyConfig) error {
	lanes := 3
	if cfg.CPhy {
		lanes = 2
	}
	var v uint8
	for n := 0; n < lanes; n++ {
		if cfg.LanePolarities[n] {
			v |= 1 << uint(n)
		}
	}
	f := lanePolarity.Field(cfg.Index)
	if cfg.CPhy {
		f.Mask = lowBits(f.Mask, lanes)
	}
	return f.Update(d.t, v)
}

// lowBits keeps the n lowest set bits of mask.
func lowBits(mask uint8, n int) uint8 {
	var out uint8
	for b := uint(0); b < 8 && n > 0; b++ {
		if mask&(1<<b) != 0 {
			out |= 1 << b
			n--
		}
	}
	return out
}

func (d *Device) setDeskew(ctrl int, enable bool) error {
	if !enable {
		if err := gmsl.Update(d.t, mipiTx3(ctrl), 0, MipiTx3BitDeskewEn); err != nil {
			return err
		}
		return gmsl.Update(d.t, mipiTx4(ctrl), 0, MipiTx3BitDeskewEn)
	}
	mask := MipiTx3BitDeskewEn | MipiTx3MaskDeskewWid
	v := MipiTx3BitDeskewEn | DeskewWidth
	if err := gmsl.Update(d.t, mipiTx3(ctrl), v, mask); err != nil {
		return err
	}
	return gmsl.Update(d.t, mipiTx4(ctrl), v, mask)
}

// setPhyRate programs the predefined output frequency. The DPLL of the port
// is held out of soft reset before and after the frequency is changed.
func (d *Device) setPhyRate(phy, mipiClk int) error {
	dpll := dpllReset(phy)
	if err := gmsl.Update(d.t, dpll, 1, DpllBitSoftRstN); err != nil {
		return err
	}
	freq := uint8(mipiClk / FrequencyStepMbps)
	if err := gmsl.Update(d.t, backtop22(phy), freq, Backtop22MaskFreq); err != nil {
		return err
	}
	if err := gmsl.Update(d.t, backtop22(phy), 1, Backtop22BitFreqEn); err != nil {
		return err
	}
	return gmsl.Update(d.t, dpll, 1, DpllBitSoftRstN)
}

func (d *Device) setAltMemMap(cfg device.PhyConfig) error {
	var v uint8
	if cfg.AltMemMap12 {
		v |= MipiTx51BitAlt12
	}
	if cfg.AltMemMap8 {
		v |= MipiTx51BitAlt8
	}
	if cfg.AltMemMap10 {
		v |= MipiTx51BitAlt10
	}
	if cfg.Alt2MemMap8 {
		v |= MipiTx51BitAlt28
	}
	return gmsl.Update(d.t, mipiTx51(cfg.Index), v, MipiTx51MaskAlt)
}

// enablePhy adds the PHY to the standby-enable set. The current set is not
// checked first.
func (d *Device) enablePhy(phy int) error {
	v, err := gmsl.Read(d.t, RegMap[RegMipiPhy2], MipiPhy2MaskStdby)
	if err != nil {
		return err
	}
	return gmsl.Update(d.t, RegMap[RegMipiPhy2], v|1<<uint(phy), MipiPhy2MaskStdby)
}
