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
	"jinr.ru/greenlab/go-gmsl/pkg/srv/control"
)

type ApiClient interface {
	Devices() ([]*control.DeviceInfo, error)
	RegRead(device, addr string) (string, error)
	RegReadAll(device string) ([]*control.RegHex, error)
	RegWrite(device, addr, value string) error
	Apply(device string) error
	Diag(device string, categories ...string) (*control.RawReport, error)
	DiagCategory(device, category string) (*control.RawEntry, error)
}
