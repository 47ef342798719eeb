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
	"net/http"

	"jinr.ru/greenlab/go-gmsl/pkg/device"
	deviceifc "jinr.ru/greenlab/go-gmsl/pkg/device/ifc"
	"jinr.ru/greenlab/go-gmsl/pkg/diag"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

// ControlServer owns the configured devices and serializes access to each
// of them.
type ControlServer interface {
	Run() error
	Close() error

	GetDeviceByName(deviceName string) (deviceifc.Device, error)
	DeviceNames() []string

	RegRead(deviceName string, addr uint16) (*gmsl.Reg, error)
	RegReadAll(deviceName string) ([]*gmsl.Reg, error)
	RegWrite(deviceName string, reg *gmsl.Reg) error
	Apply(deviceName string) error
	Diag(deviceName string, cats ...device.Category) (*diag.Report, error)
	DiagOne(deviceName string, c device.Category) (device.Result, error)
}

type ApiServer interface {
	Run() error
	Handler() http.Handler
}
