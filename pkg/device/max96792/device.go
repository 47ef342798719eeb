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

// Package max96792 drives the MAX96792 dual-link GMSL deserializer.
package max96792

import (
	"io"
	"time"

	"jinr.ru/greenlab/go-gmsl/pkg/device"
	deviceifc "jinr.ru/greenlab/go-gmsl/pkg/device/ifc"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

const (
	// LinkSettleDelay follows every link selection change.
	LinkSettleDelay = 60 * time.Millisecond
	// PacketSampleDelay separates packet counter samples.
	PacketSampleDelay = 10 * time.Millisecond
)

type Device struct {
	device.Unsupported

	param    *device.InitParam
	t        gmsl.Transport
	id       uint8
	revision uint8
	part     string

	// Sleep implements the fixed settling delays. It defaults to time.Sleep.
	Sleep func(time.Duration)
}

var _ deviceifc.Device = &Device{}
var _ deviceifc.Diagnostics = &Device{}

// New identifies the part behind t and returns a device bound to param.
// Nothing is written to the part.
func New(param *device.InitParam, t gmsl.Transport) (*Device, error) {
	id, err := gmsl.Read(t, RegMap[RegDevID], 0xFF)
	if err != nil {
		return nil, err
	}
	part, ok := PartNames[id]
	if !ok {
		return nil, device.ErrUnknownPart{ID: id}
	}
	rev, err := gmsl.Read(t, RegMap[RegDevRev], DevRevMask)
	if err != nil {
		return nil, err
	}
	if param == nil {
		param = &device.InitParam{}
	}
	log.Info("Found %s revision %d: %s", part, rev, param.Name)
	return &Device{
		param:    param,
		t:        t,
		id:       id,
		revision: rev,
		part:     part,
		Sleep:    time.Sleep,
	}, nil
}

func (d *Device) GetName() string {
	return d.param.Name
}

// Part returns the part name and revision read at creation.
func (d *Device) Part() (string, uint8) {
	return d.part, d.revision
}

func (d *Device) Param() *device.InitParam {
	return d.param
}

// TunnelMode reports whether the device forwards CSI-2 packets unmodified.
func (d *Device) TunnelMode() bool {
	return d.param.TunnelMode
}

// Transport returns the register transport of the device.
func (d *Device) Transport() gmsl.Transport {
	return d.t
}

func (d *Device) Diagnostics() deviceifc.Diagnostics {
	return d
}

// RegRead ...
func (d *Device) RegRead(addr uint16) (*gmsl.Reg, error) {
	v, err := d.t.ReadReg(addr)
	if err != nil {
		return nil, err
	}
	return &gmsl.Reg{Addr: addr, Value: v}, nil
}

// RegWrite ...
func (d *Device) RegWrite(reg *gmsl.Reg) error {
	return gmsl.Write(d.t, reg.Addr, reg.Value)
}

// RegReadAll reads every named register in alias order.
func (d *Device) RegReadAll() ([]*gmsl.Reg, error) {
	regs := make([]*gmsl.Reg, 0, int(RegAliasLimit))
	for alias := RegAlias(0); alias < RegAliasLimit; alias++ {
		reg, err := d.RegRead(RegMap[alias])
		if err != nil {
			return regs, err
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// Remove releases the transport. The device must not be used afterwards.
func (d *Device) Remove() error {
	var err error
	if c, ok := d.t.(io.Closer); ok {
		err = c.Close()
	}
	d.t = nil
	return err
}

func (d *Device) sleep(delay time.Duration) {
	if d.Sleep != nil {
		d.Sleep(delay)
	}
}

// Apply validates the init parameters and then brings the part up: CSI output
// off, clean slate, PHYs, pipes, control channels, link rates, link selection
// and CSI output on. The first error stops the sequence; registers already
// written keep their new values.
func (d *Device) Apply() error {
	p := d.param
	if err := p.Validate(); err != nil {
		return err
	}
	log.Info("Applying configuration to %s", p.Name)
	if err := d.EnableMipiOut(false); err != nil {
		return err
	}
	if err := d.CSIInit(); err != nil {
		return err
	}
	for _, phy := range p.Phys {
		if err := d.ConfigurePhy(phy); err != nil {
			return err
		}
	}
	for _, pipe := range p.Pipes {
		if err := d.ConfigurePipe(pipe); err != nil {
			return err
		}
	}
	for _, link := range p.RemoteControl {
		if err := d.EnableRemoteControlChannel(link, true); err != nil {
			return err
		}
	}
	mask := p.LinkMask()
	if err := d.SetRxLinkRate(mask); err != nil {
		return err
	}
	if err := d.ResetOneShot(); err != nil {
		return err
	}
	if err := d.SelectLinks(mask); err != nil {
		return err
	}
	return d.EnableMipiOut(true)
}
