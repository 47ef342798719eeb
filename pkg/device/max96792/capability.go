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

// LinksEnabled reports which links LINK_CFG selects. On error no link is
// reported enabled.
func (d *Device) LinksEnabled() ([device.LinkCount]bool, error) {
	var links [device.LinkCount]bool
	v, err := gmsl.Read(d.t, RegMap[RegCtrl0], Ctrl0MaskLinkCfg)
	if err != nil {
		return links, err
	}
	for _, link := range device.Links {
		links[link] = v&link.Bit() != 0
	}
	return links, nil
}

// PipesEnabled reports which video pipes are enabled, indexed by Pipe.Slot.
func (d *Device) PipesEnabled() ([device.PipeCount]bool, error) {
	var pipes [device.PipeCount]bool
	v, err := gmsl.Read(d.t, RegMap[RegVideoPipeEn], VideoPipeEnMask)
	if err != nil {
		return pipes, err
	}
	for _, pipe := range device.Pipes {
		pipes[pipe.Slot()] = v&(1<<uint(pipe.Slot())) != 0
	}
	return pipes, nil
}

// PhysEnabled reports which PHYs are out of standby.
func (d *Device) PhysEnabled() ([device.PhyCount]bool, error) {
	var phys [device.PhyCount]bool
	v, err := gmsl.Read(d.t, RegMap[RegMipiPhy2], MipiPhy2MaskStdby)
	if err != nil {
		return phys, err
	}
	for i := range phys {
		phys[i] = v&(1<<uint(i)) != 0
	}
	return phys, nil
}
