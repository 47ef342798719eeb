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
	"errors"
	"testing"
	"time"

	"jinr.ru/greenlab/go-gmsl/pkg/device"
)

func (td *testDevice) allCategories() map[device.Category]func() (device.Result, error) {
	return map[device.Category]func() (device.Result, error){
		device.CategoryDeviceID:           func() (device.Result, error) { r, err := td.DeviceID(); return r, err },
		device.CategoryDeviceRevision:     func() (device.Result, error) { r, err := td.DeviceRevision(); return r, err },
		device.CategoryPartConfig:         func() (device.Result, error) { r, err := td.PartConfig(); return r, err },
		device.CategoryLinkLock:           func() (device.Result, error) { r, err := td.LinkLock(); return r, err },
		device.CategoryDecodeError:        func() (device.Result, error) { r, err := td.DecodeError(); return r, err },
		device.CategoryIdleError:          func() (device.Result, error) { r, err := td.IdleError(); return r, err },
		device.CategoryLineFault:          func() (device.Result, error) { r, err := td.LineFault(); return r, err },
		device.CategoryMaxRetransmission:  func() (device.Result, error) { r, err := td.MaxRetransmission(); return r, err },
		device.CategoryMipiPacketCount:    func() (device.Result, error) { r, err := td.MipiPacketCount(); return r, err },
		device.CategoryLineMemoryOverflow: func() (device.Result, error) { r, err := td.LineMemoryOverflow(); return r, err },
		device.CategoryCRCError:           func() (device.Result, error) { r, err := td.CRCError(); return r, err },
		device.CategoryStreamID:           func() (device.Result, error) { r, err := td.StreamID(); return r, err },
		device.CategoryRemoteError:        func() (device.Result, error) { r, err := td.RemoteError(); return r, err },
		device.CategoryEOMError:           func() (device.Result, error) { r, err := td.EOMError(); return r, err },
		device.CategoryVideoLock:          func() (device.Result, error) { r, err := td.VideoLock(); return r, err },
		device.CategoryVideoBlockLength:   func() (device.Result, error) { r, err := td.VideoBlockLength(); return r, err },
	}
}

func TestDiagnosticsReadOnlyEnabledUnits(t *testing.T) {
	// Link A, pipe Y and PHY 0 only.
	td := newTestDevice(t, &device.InitParam{}, map[uint16]uint8{0x0010: 0x01, 0x0160: 0x01, 0x0332: 0x10})

	for cat, run := range td.allCategories() {
		if _, err := run(); err != nil {
			t.Errorf("%s: %v", cat, err)
		}
	}

	disabled := map[string][]uint16{
		"link B":    {0x5009, 0x0023, 0x0025, 0x0003, 0x5087, 0x5097, 0x50A7, 0x50B7},
		"pipe Z":    {0x0124, 0x012A, 0x012C, 0x04B4, 0x048B, 0x048D, 0x04AD},
		"phys 1..3": {0x044A, 0x048A, 0x04CA, 0x0321, 0x0324, 0x0327, 0x08D1, 0x08D2, 0x08D3, 0x08D5, 0x08D6, 0x08D7, 0x1D00},
	}
	for unit, addrs := range disabled {
		for _, addr := range addrs {
			if n := td.chip.Reads(addr); n != 0 {
				t.Errorf("%s: 0x%04x read %d times", unit, addr, n)
			}
		}
	}
	for _, addr := range []uint16{0x0013, 0x0022, 0x0112, 0x0118, 0x011A, 0x08D0, 0x08D4, 0x040A} {
		if td.chip.Reads(addr) == 0 {
			t.Errorf("enabled unit register 0x%04x never read", addr)
		}
	}

	lock, _ := td.LinkLock()
	if lock.Links[device.LinkB].Checked || !lock.Links[device.LinkA].Checked {
		t.Errorf("link lock = %+v", lock.Links)
	}
	vl, _ := td.VideoLock()
	if vl.Pipes[device.PipeZ.Slot()].Checked || !vl.Pipes[device.PipeY.Slot()].Checked {
		t.Errorf("video lock = %+v", vl.Pipes)
	}
}

func TestDiagnosticsWithNothingEnabled(t *testing.T) {
	td := newTestDevice(t, &device.InitParam{}, map[uint16]uint8{0x0010: 0x00, 0x0160: 0x00, 0x0332: 0x00})
	gated := []device.Category{
		device.CategoryLinkLock, device.CategoryDecodeError, device.CategoryIdleError,
		device.CategoryMaxRetransmission, device.CategoryMipiPacketCount, device.CategoryLineMemoryOverflow,
		device.CategoryCRCError, device.CategoryStreamID, device.CategoryRemoteError, device.CategoryEOMError,
		device.CategoryVideoLock, device.CategoryVideoBlockLength, device.CategoryPartConfig,
	}
	runs := td.allCategories()
	for _, cat := range gated {
		res, err := runs[cat]()
		if err != nil {
			t.Fatalf("%s: %v", cat, err)
		}
		if res.HasError() {
			t.Errorf("%s reports an error with no unit enabled", cat)
		}
	}
	if len(td.sleeps) != 0 {
		t.Errorf("packet count slept with no phy enabled: %v", td.sleeps)
	}
}

func TestAggregateErrorFlag(t *testing.T) {
	tests := []struct {
		name    string
		linkCfg uint8
		lockA   uint8
		lockB   uint8
		want    bool
	}{
		{"both locked", 0x03, 0x08, 0x08, false},
		{"A unlocked", 0x03, 0x00, 0x08, true},
		{"B unlocked", 0x03, 0x08, 0x00, true},
		{"unlocked link disabled", 0x01, 0x08, 0x00, false},
		{"no link enabled", 0x00, 0x00, 0x00, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := newTestDevice(t, nil, map[uint16]uint8{0x0010: tt.linkCfg, 0x0013: tt.lockA, 0x5009: tt.lockB})
			res, err := td.LinkLock()
			if err != nil {
				t.Fatal(err)
			}
			if res.DiagErr != tt.want {
				t.Errorf("DiagErr = %t, want %t", res.DiagErr, tt.want)
			}
		})
	}
}

func TestErrorCounters(t *testing.T) {
	tests := []struct {
		name  string
		image map[uint16]uint8
		dec   bool
		idle  bool
	}{
		{"clean", nil, false, false},
		{"decode flag", map[uint16]uint8{0x001B: 0x01}, true, false},
		{"decode count on B", map[uint16]uint8{0x0023: 0x04}, true, false},
		{"idle count", map[uint16]uint8{0x0024: 0x01}, false, true},
		{"idle flag B", map[uint16]uint8{0x001B: 0x08}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := map[uint16]uint8{0x0010: 0x03}
			for k, v := range tt.image {
				image[k] = v
			}
			td := newTestDevice(t, nil, image)
			dec, err := td.DecodeError()
			if err != nil {
				t.Fatal(err)
			}
			idle, err := td.IdleError()
			if err != nil {
				t.Fatal(err)
			}
			if dec.DiagErr != tt.dec || idle.DiagErr != tt.idle {
				t.Errorf("decode %t idle %t, want %t %t", dec.DiagErr, idle.DiagErr, tt.dec, tt.idle)
			}
		})
	}
}

func TestMipiPacketCount(t *testing.T) {
	td := newTestDevice(t, nil, map[uint16]uint8{0x0332: 0x30})
	td.chip.Sequence(0x08D0, 0, 0, 0, 0)
	td.chip.Sequence(0x08D4, 0, 5, 0, 0)
	td.chip.Sequence(0x08D1, 1, 2, 3, 4)
	td.chip.Sequence(0x08D5, 4, 3, 2, 1)

	res, err := td.MipiPacketCount()
	if err != nil {
		t.Fatal(err)
	}
	for _, addr := range []uint16{0x08D0, 0x08D1, 0x08D4, 0x08D5} {
		if n := td.chip.Reads(addr); n != PacketCountSamples {
			t.Errorf("0x%04x sampled %d times, want %d", addr, n, PacketCountSamples)
		}
	}
	if !res.Controllers[0].NotSent || res.Phys[0].NotSent {
		t.Errorf("phy 0 = %+v / %+v", res.Controllers[0], res.Phys[0])
	}
	if res.Controllers[1].Sum != 10 || res.Phys[1].Sum != 10 {
		t.Errorf("phy 1 sums = %d / %d", res.Controllers[1].Sum, res.Phys[1].Sum)
	}
	if !res.DiagErr {
		t.Error("zero packet count not reported")
	}
	if res.Controllers[2].Checked {
		t.Error("phy 2 in standby was checked")
	}
	if len(td.sleeps) != PacketCountSamples-1 {
		t.Fatalf("sleeps = %v", td.sleeps)
	}
	for _, s := range td.sleeps {
		if s != 10*time.Millisecond {
			t.Errorf("sample delay %v", s)
		}
	}
}

func TestPipeDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		image map[uint16]uint8
		check func(t *testing.T, td *testDevice)
	}{
		{
			name:  "crc error ignored when crc disabled",
			image: map[uint16]uint8{0x0112: 0x80},
			check: func(t *testing.T, td *testDevice) {
				res, err := td.CRCError()
				if err != nil {
					t.Fatal(err)
				}
				if res.DiagErr || res.Pipes[0].Err || res.Pipes[0].Enabled {
					t.Errorf("crc = %+v", res)
				}
				if n := td.chip.Reads(0x0112); n != 1 {
					t.Errorf("VIDEO_RX0 read %d times", n)
				}
			},
		},
		{
			name:  "crc error",
			image: map[uint16]uint8{0x0112: 0x82},
			check: func(t *testing.T, td *testDevice) {
				res, _ := td.CRCError()
				if !res.DiagErr || !res.Pipes[0].Err {
					t.Errorf("crc = %+v", res)
				}
			},
		},
		{
			name:  "stream id out of range",
			image: map[uint16]uint8{0x0118: 0x05},
			check: func(t *testing.T, td *testDevice) {
				res, _ := td.StreamID()
				if !res.DiagErr || res.Pipes[0].Valid || res.Pipes[0].ID != 5 {
					t.Errorf("stream id = %+v", res)
				}
			},
		},
		{
			name:  "video locked",
			image: map[uint16]uint8{0x011A: 0x40},
			check: func(t *testing.T, td *testDevice) {
				lock, _ := td.VideoLock()
				blk, _ := td.VideoBlockLength()
				if lock.DiagErr || blk.DiagErr || !lock.Pipes[0].Locked {
					t.Errorf("lock %+v block %+v", lock, blk)
				}
			},
		},
		{
			name:  "video unlocked with block length error",
			image: map[uint16]uint8{0x011A: 0x80},
			check: func(t *testing.T, td *testDevice) {
				lock, _ := td.VideoLock()
				blk, _ := td.VideoBlockLength()
				if !lock.DiagErr || !blk.DiagErr || !blk.Pipes[0].Set {
					t.Errorf("lock %+v block %+v", lock, blk)
				}
			},
		},
		{
			name:  "line memory overflow of the enabled pipe",
			image: map[uint16]uint8{0x030B: 0x02},
			check: func(t *testing.T, td *testDevice) {
				res, _ := td.LineMemoryOverflow()
				if !res.DiagErr || !res.Pipes[0].Set || res.Pipes[1].Checked {
					t.Errorf("overflow = %+v", res)
				}
			},
		},
		{
			name:  "line memory overflow of a disabled pipe",
			image: map[uint16]uint8{0x030B: 0x04},
			check: func(t *testing.T, td *testDevice) {
				res, _ := td.LineMemoryOverflow()
				if res.DiagErr {
					t.Errorf("overflow = %+v", res)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := map[uint16]uint8{0x0160: 0x01}
			for k, v := range tt.image {
				image[k] = v
			}
			tt.check(t, newTestDevice(t, nil, image))
		})
	}
}

func TestLineFault(t *testing.T) {
	want := []device.LineFaultStatus{
		device.LineFaultShortToBattery,
		device.LineFaultShortToGround,
		device.LineFaultNormal,
		device.LineFaultLineOpen,
		device.LineFaultLineToLineShort,
		device.LineFaultLineToLineShort,
		device.LineFaultLineToLineShort,
		device.LineFaultLineToLineShort,
	}
	for code, status := range want {
		td := newTestDevice(t, nil, map[uint16]uint8{0x0027: uint8(code) << 4})
		got, err := td.LineFaultStatus(3)
		if err != nil {
			t.Fatal(err)
		}
		if got != status {
			t.Errorf("code %d decoded as %s, want %s", code, got, status)
		}
	}

	td := newTestDevice(t, nil, nil)
	for _, lf := range []int{-1, device.LineFaultCount} {
		if _, err := td.LineFaultStatus(lf); err != device.ErrNotSupported {
			t.Errorf("monitor %d: error %v", lf, err)
		}
	}
	res, err := td.LineFault()
	if err != nil {
		t.Fatal(err)
	}
	if res.DiagErr {
		t.Errorf("all-normal monitors reported %+v", res)
	}

	td.chip.Set(0x0026, 0x32)
	res, _ = td.LineFault()
	if !res.DiagErr || res.Monitors[1].Status != device.LineFaultLineOpen || res.Monitors[0].Status != device.LineFaultNormal {
		t.Errorf("line-open on monitor 1: %+v", res)
	}

	td.chip.Set(0x0026, 0x22)
	td.chip.Set(0x001B, 0x10)
	res, _ = td.LineFault()
	if !res.DiagErr || !res.Interrupt {
		t.Errorf("interrupt not reported: %+v", res)
	}
}

func TestMaxRetransmission(t *testing.T) {
	td := newTestDevice(t, nil, map[uint16]uint8{0x0010: 0x01, 0x0097: 0x85, 0x00A7: 0x03})
	res, err := td.MaxRetransmission()
	if err != nil {
		t.Fatal(err)
	}
	a := res.Links[device.LinkA]
	if !a.Checked || a.Flag {
		t.Errorf("link A = %+v", a)
	}
	if ch := a.Channels[device.ArqGPIO]; !ch.Err || ch.Count != 5 {
		t.Errorf("gpio channel = %+v", ch)
	}
	if ch := a.Channels[device.ArqPassThrough1]; ch.Err || ch.Count != 3 {
		t.Errorf("pass-through channel = %+v", ch)
	}
	if !res.DiagErr {
		t.Error("sub-channel error not reported")
	}

	td = newTestDevice(t, nil, map[uint16]uint8{0x0010: 0x02, 0x001D: 0x10})
	res, _ = td.MaxRetransmission()
	if !res.DiagErr || !res.Links[device.LinkB].Flag {
		t.Errorf("combined flag not reported: %+v", res)
	}
}

func TestRemoteError(t *testing.T) {
	// Link A has its control channel disabled, link B enabled.
	td := newTestDevice(t, nil, map[uint16]uint8{0x0010: 0x03, 0x0001: 0x12, 0x001B: 0x20, 0x001D: 0x20})
	res, err := td.RemoteError()
	if err != nil {
		t.Fatal(err)
	}
	if a := res.Links[device.LinkA]; !a.Checked || a.ControlChannel || a.Flag {
		t.Errorf("link A = %+v", a)
	}
	if b := res.Links[device.LinkB]; !b.ControlChannel || !b.Flag {
		t.Errorf("link B = %+v", b)
	}
	if !res.DiagErr {
		t.Error("remote error not reported")
	}
}

func TestEOMError(t *testing.T) {
	td := newTestDevice(t, nil, map[uint16]uint8{0x0010: 0x03, 0x001D: 0x02})
	res, err := td.EOMError()
	if err != nil {
		t.Fatal(err)
	}
	if res.Links[device.LinkA].Set || !res.Links[device.LinkB].Set || !res.DiagErr {
		t.Errorf("eom = %+v", res)
	}
}

func TestDeviceIdentity(t *testing.T) {
	td := newTestDevice(t, nil, nil)
	id, err := td.DeviceID()
	if err != nil || id.DiagErr || id.Part != "MAX96792A" {
		t.Errorf("DeviceID() = %+v, %v", id, err)
	}
	td.chip.Set(0x000E, 0x03)
	rev, err := td.DeviceRevision()
	if err != nil || !rev.DiagErr || rev.Revision != 3 || rev.Expected != 1 {
		t.Errorf("DeviceRevision() = %+v, %v", rev, err)
	}
	td.chip.Set(0x000D, 0x00)
	id, _ = td.DeviceID()
	if !id.DiagErr {
		t.Error("unknown id not reported")
	}
}

func TestDiagnosticsNotApplicable(t *testing.T) {
	td := newTestDevice(t, nil, nil)
	if _, err := td.Temperature(); err != device.ErrNotApplicable {
		t.Errorf("Temperature() error = %v", err)
	}
	if _, err := td.SupplyMonitor(); err != device.ErrNotApplicable {
		t.Errorf("SupplyMonitor() error = %v", err)
	}
}

func TestDiagnosticTransportErrorReturnsPartialResult(t *testing.T) {
	td := newTestDevice(t, nil, map[uint16]uint8{0x0010: 0x03, 0x0013: 0x08})
	td.chip.FailOn(0x5009, errBus)
	res, err := td.LinkLock()
	if !errors.Is(err, errBus) {
		t.Fatalf("LinkLock error = %v", err)
	}
	if res == nil || !res.Links[device.LinkA].Checked || !res.Links[device.LinkA].Locked {
		t.Errorf("partial result = %+v", res)
	}
}
