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

// SelectLinks writes LINK_CFG and waits for the links to retrain.
func (d *Device) SelectLinks(mask uint8) error {
	log.Debug("Selecting links: %02b", mask)
	if err := gmsl.Update(d.t, RegMap[RegCtrl0], mask, Ctrl0MaskLinkCfg); err != nil {
		return err
	}
	d.sleep(LinkSettleDelay)
	return nil
}

// SetRxLinkRate writes the configured receive rate of every link in mask.
func (d *Device) SetRxLinkRate(mask uint8) error {
	for _, link := range device.Links {
		if mask&link.Bit() == 0 {
			continue
		}
		rate, ok := d.param.Rate(link)
		if !ok {
			log.Debug("No rate configured for link %s", link)
			continue
		}
		if err := linkTable[link].rate.Update(d.t, uint8(rate)); err != nil {
			return err
		}
	}
	return nil
}

// ResetOneShot retrains the selected links.
func (d *Device) ResetOneShot() error {
	return gmsl.Update(d.t, RegMap[RegCtrl0], 1, Ctrl0BitOneshot)
}

// EnableRemoteControlChannel writes the control-channel disable bit of a link.
func (d *Device) EnableRemoteControlChannel(link device.Link, enable bool) error {
	if !link.Valid() {
		return device.ErrNotSupported
	}
	return linkTable[link].disRemCC.Enable(d.t, !enable)
}

// EnableMipiOut gates the CSI-2 output of the part.
func (d *Device) EnableMipiOut(enable bool) error {
	f := gmsl.Field{Addr: RegMap[RegBacktop12], Mask: Backtop12BitCSIOut}
	return f.Enable(d.t, enable)
}

// SetPhyCopy duplicates the output of one port onto the other.
func (d *Device) SetPhyCopy(enable bool, srcPort int) error {
	if srcPort < 0 || srcPort >= device.PortCount {
		return device.ErrNotSupported
	}
	src := gmsl.Field{Addr: RegMap[RegMipiPhy0], Mask: MipiPhy0BitCopySrc}
	if err := src.Update(d.t, uint8(srcPort)); err != nil {
		return err
	}
	en := gmsl.Field{Addr: RegMap[RegMipiPhy0], Mask: MipiPhy0BitCopyEn}
	return en.Enable(d.t, enable)
}

// CSIInit puts every PHY into standby and disables every pipe.
func (d *Device) CSIInit() error {
	if err := gmsl.Update(d.t, RegMap[RegMipiPhy2], 0, MipiPhy2MaskStdby); err != nil {
		return err
	}
	return gmsl.Update(d.t, RegMap[RegVideoPipeEn], 0, VideoPipeEnMask)
}
