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

package ifc

import (
	"jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

// Diagnostics is the per-category diagnostic surface of a part. Categories
// the part does not have return device.ErrNotApplicable.
type Diagnostics interface {
	DeviceID() (*device.DeviceIDResult, error)
	DeviceRevision() (*device.DeviceRevisionResult, error)
	PartConfig() (*device.PartConfigResult, error)
	LinkLock() (*device.LinkLockResult, error)
	DecodeError() (*device.DecodeErrorResult, error)
	IdleError() (*device.IdleErrorResult, error)
	LineFault() (*device.LineFaultResult, error)
	MaxRetransmission() (*device.MaxRetransmissionResult, error)
	MipiPacketCount() (*device.MipiPacketCountResult, error)
	LineMemoryOverflow() (*device.LineMemoryOverflowResult, error)
	CRCError() (*device.CRCErrorResult, error)
	StreamID() (*device.StreamIDResult, error)
	RemoteError() (*device.RemoteErrorResult, error)
	EOMError() (*device.EOMErrorResult, error)
	VideoLock() (*device.VideoLockResult, error)
	VideoBlockLength() (*device.VideoBlockLengthResult, error)
	Temperature() (*device.TemperatureResult, error)
	SupplyMonitor() (*device.SupplyMonitorResult, error)
}

type Device interface {
	GetName() string
	// Apply writes the init parameters the device was created with.
	Apply() error
	RegRead(addr uint16) (*gmsl.Reg, error)
	RegWrite(reg *gmsl.Reg) error
	// RegReadAll reads the named registers of the part.
	RegReadAll() ([]*gmsl.Reg, error)
	Diagnostics() Diagnostics
	Remove() error
}
