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

// ConfigurePipe enables a video pipe and programs packing, stream selection
// and either the remap table or tunnel routing. Disabled pipes are left alone.
func (d *Device) ConfigurePipe(cfg device.PipeConfig) error {
	if !cfg.Enabled {
		return nil
	}
	pipe := cfg.ID
	if !pipe.Valid() {
		return device.ErrNotSupported
	}
	log.Debug("Configuring pipe %s: link %d stream %d remaps %d", pipe, cfg.LinkID, cfg.StreamID, len(cfg.Remaps))

	if err := d.EnablePipe(pipe, true); err != nil {
		return err
	}
	if !d.param.TunnelMode {
		if err := d.setDoublePacking(pipe, cfg); err != nil {
			return err
		}
	}
	if err := d.enableStreamSelect(cfg); err != nil {
		return err
	}
	if d.param.TunnelMode {
		if err := d.MipiTunnelPipeControl(pipe, cfg.TunnelDest); err != nil {
			return err
		}
		return d.SetPipeTxMode(pipe)
	}
	for i, remap := range cfg.Remaps {
		if err := d.SetRemap(pipe, i, remap); err != nil {
			return err
		}
	}
	return nil
}

// EnablePipe sets or clears the pipe's bit in VIDEO_PIPE_EN.
func (d *Device) EnablePipe(pipe device.Pipe, enable bool) error {
	f := gmsl.Field{Addr: RegMap[RegVideoPipeEn], Mask: 1 << uint(pipe.Slot())}
	return f.Enable(d.t, enable)
}

// setDoublePacking programs the 10, 8 and 12 bit double packing of a pipe.
func (d *Device) setDoublePacking(pipe device.Pipe, cfg device.PipeConfig) error {
	table, ok := doublePackingTable[pipe]
	if !ok {
		log.Warning("No double packing registers for pipe %s", pipe)
		return nil
	}
	steps := []struct {
		regs         doublePacking
		enable, mode bool
	}{
		{table.bpp10, cfg.Bpp10Dbl, cfg.Bpp10DblMode},
		{table.bpp8, cfg.Bpp8Dbl, cfg.Bpp8DblMode},
		{table.bpp12, cfg.Bpp12Dbl, cfg.Bpp12DblMode},
	}
	for _, step := range steps {
		if err := step.regs.enable.Enable(d.t, step.enable); err != nil {
			return err
		}
		if err := step.regs.mode.Enable(d.t, step.mode); err != nil {
			return err
		}
	}
	return nil
}

// enableStreamSelect turns on stream selection and, unless the pipe picks its
// stream automatically, writes the stream id and source link.
func (d *Device) enableStreamSelect(cfg device.PipeConfig) error {
	selEn := gmsl.Field{Addr: RegMap[RegVideoPipeEn], Mask: VideoPipeSelEnBase << uint(cfg.ID.Slot())}
	if err := selEn.Enable(d.t, true); err != nil {
		return err
	}
	if cfg.AutoSelect {
		return nil
	}
	streamID := cfg.StreamID | cfg.LinkID<<2
	return streamSelect(cfg.ID).Update(d.t, streamID)
}

// SetRemap programs remap entry i of a pipe. The entry is enabled last so an
// incomplete entry is never active. The destination register reuses the
// source data type.
func (d *Device) SetRemap(pipe device.Pipe, i int, remap device.RemapEntry) error {
	if !pipe.Valid() || i < 0 || i >= device.MaxRemaps {
		return device.ErrNotSupported
	}
	table := remapTableOf(pipe)
	if err := gmsl.Update(d.t, table.src(i), dtvc(remap.FromDT, remap.FromVC), 0xFF); err != nil {
		return err
	}
	if err := gmsl.Update(d.t, table.dst(i), dtvc(remap.FromDT, remap.ToVC), 0xFF); err != nil {
		return err
	}
	if err := table.dstPhy.Field(i).Update(d.t, remap.ToPhy); err != nil {
		return err
	}
	return table.enable.Field(i).Enable(d.t, true)
}

// MipiTunnelPipeControl routes a pipe to a CSI controller in tunnel mode.
func (d *Device) MipiTunnelPipeControl(pipe device.Pipe, dest uint8) error {
	if !pipe.Valid() {
		return device.ErrNotSupported
	}
	return gmsl.Update(d.t, mipiTx52(pipe), dest, MipiTx52MaskTunDest)
}

// SetPipeTxMode writes the tunnel enable bit of a pipe from the device mode.
func (d *Device) SetPipeTxMode(pipe device.Pipe) error {
	if !pipe.Valid() {
		return device.ErrNotSupported
	}
	f := gmsl.Field{Addr: mipiTx52(pipe), Mask: MipiTx52BitTunEn}
	return f.Enable(d.t, d.param.TunnelMode)
}
