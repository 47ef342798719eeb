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

package command

import (
	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/device/max96792"
	"jinr.ru/greenlab/go-gmsl/pkg/regstate"
	"jinr.ru/greenlab/go-gmsl/pkg/transport"
)

// LocalDevice is a device opened directly by a command, without the control
// server in between.
type LocalDevice struct {
	*max96792.Device
	state *regstate.RegState
}

// OpenDevice opens the named device of the config.
func OpenDevice(cfg *config.Config, name string) (*LocalDevice, error) {
	devCfg, err := cfg.GetDeviceByName(name)
	if err != nil {
		return nil, err
	}

	var state *regstate.RegState
	if devCfg.Transport == config.TransportSim {
		state, err = regstate.NewRegState(cfg.DBPath, []string{name})
		if err != nil {
			return nil, err
		}
	}

	t, err := transport.Open(devCfg, state)
	if err != nil {
		closeState(state)
		return nil, err
	}
	dev, err := max96792.New(devCfg.InitParam(), t)
	if err != nil {
		transport.Close(t)
		closeState(state)
		return nil, err
	}
	return &LocalDevice{Device: dev, state: state}, nil
}

func closeState(state *regstate.RegState) {
	if state != nil {
		state.Close()
	}
}

// Close releases the transport and the register state.
func (d *LocalDevice) Close() error {
	err := d.Device.Remove()
	if d.state != nil {
		if stateErr := d.state.Close(); err == nil {
			err = stateErr
		}
	}
	return err
}
