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

// LinkLock ...
func (d *Device) LinkLock() (*device.LinkLockResult, error) {
	res := &device.LinkLockResult{}
	links, err := d.LinksEnabled()
	if err != nil {
		return res, err
	}
	for _, link := range device.Links {
		if !links[link] {
			continue
		}
		locked, err := linkTable[link].locked.Set(d.t)
		if err != nil {
			return res, err
		}
		res.Links[link] = device.LinkLock{Checked: true, Locked: locked}
		res.Flag(!locked)
	}
	return res, nil
}

func (d *Device) errorCounts(flag func(linkRegs) gmsl.Field, count func(linkRegs) uint16) ([device.LinkCount]device.ErrorCount, bool, error) {
	var out [device.LinkCount]device.ErrorCount
	var abnormal bool
	links, err := d.LinksEnabled()
	if err != nil {
		return out, false, err
	}
	for _, link := range device.Links {
		if !links[link] {
			continue
		}
		regs := linkTable[link]
		set, err := flag(regs).Set(d.t)
		if err != nil {
			return out, abnormal, err
		}
		n, err := gmsl.Read(d.t, count(regs), 0xFF)
		if err != nil {
			return out, abnormal, err
		}
		out[link] = device.ErrorCount{Checked: true, Flag: set, Count: n}
		abnormal = abnormal || set || n != 0
	}
	return out, abnormal, nil
}

// DecodeError reports the decoding error flag and counter of every enabled link.
func (d *Device) DecodeError() (*device.DecodeErrorResult, error) {
	res := &device.DecodeErrorResult{}
	links, abnormal, err := d.errorCounts(
		func(r linkRegs) gmsl.Field { return r.decErr },
		func(r linkRegs) uint16 { return r.decErrCnt },
	)
	res.Links = links
	res.Flag(abnormal)
	return res, err
}

// IdleError reports the idle-word error flag and counter of every enabled link.
func (d *Device) IdleError() (*device.IdleErrorResult, error) {
	res := &device.IdleErrorResult{}
	links, abnormal, err := d.errorCounts(
		func(r linkRegs) gmsl.Field { return r.idleErr },
		func(r linkRegs) uint16 { return r.idleCnt },
	)
	res.Links = links
	res.Flag(abnormal)
	return res, err
}

// LineFaultStatus decodes the state of line-fault monitor lf.
func (d *Device) LineFaultStatus(lf int) (device.LineFaultStatus, error) {
	if lf < 0 || lf >= device.LineFaultCount {
		return 0, device.ErrNotSupported
	}
	code, err := lineFault(lf).Read(d.t)
	if err != nil {
		return 0, err
	}
	if code >= uint8(device.LineFaultLineToLineShort) {
		return device.LineFaultLineToLineShort, nil
	}
	return device.LineFaultStatus(code), nil
}

// LineFault reports the line-fault interrupt and the state of every monitor.
func (d *Device) LineFault() (*device.LineFaultResult, error) {
	res := &device.LineFaultResult{}
	irq, err := gmsl.Field{Addr: RegMap[RegIntr3], Mask: Intr3BitLfltInt}.Set(d.t)
	if err != nil {
		return res, err
	}
	res.Interrupt = irq
	res.Flag(irq)
	for lf := 0; lf < device.LineFaultCount; lf++ {
		status, err := d.LineFaultStatus(lf)
		if err != nil {
			return res, err
		}
		res.Monitors[lf] = device.LineFaultMonitor{Checked: true, Status: status}
		res.Flag(status != device.LineFaultNormal)
	}
	return res, nil
}

// MaxRetransmission reports the combined retransmission limit flag of every
// enabled link and the breakdown per ARQ channel.
func (d *Device) MaxRetransmission() (*device.MaxRetransmissionResult, error) {
	res := &device.MaxRetransmissionResult{}
	links, err := d.LinksEnabled()
	if err != nil {
		return res, err
	}
	for _, link := range device.Links {
		if !links[link] {
			continue
		}
		regs := linkTable[link]
		entry := &res.Links[link]
		entry.Checked = true
		if entry.Flag, err = regs.maxRt.Set(d.t); err != nil {
			return res, err
		}
		res.Flag(entry.Flag)
		for ch, addr := range regs.arq2 {
			rtErr, err := gmsl.Read(d.t, addr, Arq2BitMaxRtErr)
			if err != nil {
				return res, err
			}
			count, err := gmsl.Read(d.t, addr, Arq2MaskRtCnt)
			if err != nil {
				return res, err
			}
			entry.Channels[ch] = device.Retransmission{Err: rtErr != 0, Count: count}
			res.Flag(rtErr != 0)
		}
	}
	return res, nil
}

// RemoteError reports the remote error flag of links whose control channel
// is enabled.
func (d *Device) RemoteError() (*device.RemoteErrorResult, error) {
	res := &device.RemoteErrorResult{}
	links, err := d.LinksEnabled()
	if err != nil {
		return res, err
	}
	for _, link := range device.Links {
		if !links[link] {
			continue
		}
		regs := linkTable[link]
		entry := &res.Links[link]
		entry.Checked = true
		disabled, err := regs.disRemCC.Set(d.t)
		if err != nil {
			return res, err
		}
		entry.ControlChannel = !disabled
		if disabled {
			continue
		}
		if entry.Flag, err = regs.remErr.Set(d.t); err != nil {
			return res, err
		}
		res.Flag(entry.Flag)
	}
	return res, nil
}

// EOMError reports the eye-opening monitor error flag of every enabled link.
func (d *Device) EOMError() (*device.EOMErrorResult, error) {
	res := &device.EOMErrorResult{}
	links, err := d.LinksEnabled()
	if err != nil {
		return res, err
	}
	for _, link := range device.Links {
		if !links[link] {
			continue
		}
		set, err := linkTable[link].eomErr.Set(d.t)
		if err != nil {
			return res, err
		}
		res.Links[link] = device.LinkFlag{Checked: true, Set: set}
		res.Flag(set)
	}
	return res, nil
}
