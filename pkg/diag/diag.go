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

// Package diag runs diagnostic categories by name over any part that
// implements ifc.Diagnostics.
package diag

import (
	"errors"
	"fmt"

	"jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/device/ifc"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

// Func runs one diagnostic category.
type Func func() (device.Result, error)

// ErrUnknownCategory is returned for a category name that is not defined.
type ErrUnknownCategory struct {
	Name string
}

func (e ErrUnknownCategory) Error() string {
	return fmt.Sprintf("Unknown diagnostic category: %s", e.Name)
}

var categories = []device.Category{
	device.CategoryDeviceID,
	device.CategoryDeviceRevision,
	device.CategoryPartConfig,
	device.CategoryLinkLock,
	device.CategoryDecodeError,
	device.CategoryIdleError,
	device.CategoryLineFault,
	device.CategoryMaxRetransmission,
	device.CategoryMipiPacketCount,
	device.CategoryLineMemoryOverflow,
	device.CategoryCRCError,
	device.CategoryStreamID,
	device.CategoryRemoteError,
	device.CategoryEOMError,
	device.CategoryVideoLock,
	device.CategoryVideoBlockLength,
	device.CategoryTemperature,
	device.CategorySupplyMonitor,
}

// Categories returns every category in report order.
func Categories() []device.Category {
	return append([]device.Category(nil), categories...)
}

// ParseCategory ...
func ParseCategory(name string) (device.Category, error) {
	for _, c := range categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", ErrUnknownCategory{Name: name}
}

// result drops the typed nil a category returns with ErrNotApplicable.
func result[T device.Result](r T, err error) (device.Result, error) {
	if errors.Is(err, device.ErrNotApplicable) {
		return nil, err
	}
	return r, err
}

// Table maps every category to the method of d that implements it.
func Table(d ifc.Diagnostics) map[device.Category]Func {
	return map[device.Category]Func{
		device.CategoryDeviceID:           func() (device.Result, error) { return result(d.DeviceID()) },
		device.CategoryDeviceRevision:     func() (device.Result, error) { return result(d.DeviceRevision()) },
		device.CategoryPartConfig:         func() (device.Result, error) { return result(d.PartConfig()) },
		device.CategoryLinkLock:           func() (device.Result, error) { return result(d.LinkLock()) },
		device.CategoryDecodeError:        func() (device.Result, error) { return result(d.DecodeError()) },
		device.CategoryIdleError:          func() (device.Result, error) { return result(d.IdleError()) },
		device.CategoryLineFault:          func() (device.Result, error) { return result(d.LineFault()) },
		device.CategoryMaxRetransmission:  func() (device.Result, error) { return result(d.MaxRetransmission()) },
		device.CategoryMipiPacketCount:    func() (device.Result, error) { return result(d.MipiPacketCount()) },
		device.CategoryLineMemoryOverflow: func() (device.Result, error) { return result(d.LineMemoryOverflow()) },
		device.CategoryCRCError:           func() (device.Result, error) { return result(d.CRCError()) },
		device.CategoryStreamID:           func() (device.Result, error) { return result(d.StreamID()) },
		device.CategoryRemoteError:        func() (device.Result, error) { return result(d.RemoteError()) },
		device.CategoryEOMError:           func() (device.Result, error) { return result(d.EOMError()) },
		device.CategoryVideoLock:          func() (device.Result, error) { return result(d.VideoLock()) },
		device.CategoryVideoBlockLength:   func() (device.Result, error) { return result(d.VideoBlockLength()) },
		device.CategoryTemperature:        func() (device.Result, error) { return result(d.Temperature()) },
		device.CategorySupplyMonitor:      func() (device.Result, error) { return result(d.SupplyMonitor()) },
	}
}

// Entry is the outcome of one category.
type Entry struct {
	Category      device.Category `json:"category"`
	NotApplicable bool            `json:"notApplicable,omitempty"`
	Error         string          `json:"error,omitempty"`
	Result        device.Result   `json:"result,omitempty"`
}

// Report collects the outcome of several categories.
type Report struct {
	DiagErr bool     `json:"diagErr"`
	Failed  bool     `json:"failed"`
	Entries []*Entry `json:"entries"`
}

// Get returns the entry of a category, or nil.
func (r *Report) Get(c device.Category) *Entry {
	for _, e := range r.Entries {
		if e.Category == c {
			return e
		}
	}
	return nil
}

// RunOne runs a single category.
func RunOne(d ifc.Diagnostics, c device.Category) (device.Result, error) {
	f, ok := Table(d)[c]
	if !ok {
		return nil, ErrUnknownCategory{Name: string(c)}
	}
	return f()
}

// Run runs the given categories, or all of them when none is given. A
// transport error in one category is recorded and the next category still
// runs.
func Run(d ifc.Diagnostics, cats ...device.Category) *Report {
	if len(cats) == 0 {
		cats = categories
	}
	table := Table(d)
	report := &Report{}
	for _, c := range cats {
		entry := &Entry{Category: c}
		report.Entries = append(report.Entries, entry)
		f, ok := table[c]
		if !ok {
			entry.Error = ErrUnknownCategory{Name: string(c)}.Error()
			report.Failed = true
			continue
		}
		res, err := f()
		switch {
		case errors.Is(err, device.ErrNotApplicable):
			entry.NotApplicable = true
			continue
		case err != nil:
			log.Error("Diagnostic %s failed: %s", c, err)
			entry.Error = err.Error()
			report.Failed = true
		}
		entry.Result = res
		if res != nil && res.HasError() {
			log.Warning("Diagnostic %s reports an error", c)
			report.DiagErr = true
		}
	}
	return report
}
