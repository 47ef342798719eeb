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

// Package transport opens the register transport a configured device is
// reached through.
package transport

import (
	"fmt"
	"io"

	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/device/max96792"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
	"jinr.ru/greenlab/go-gmsl/pkg/regstate"
	"jinr.ru/greenlab/go-gmsl/pkg/sim"
	"jinr.ru/greenlab/go-gmsl/pkg/transport/i2c"
)

type ErrUnknownTransport struct {
	Name string
}

func (e ErrUnknownTransport) Error() string {
	return fmt.Sprintf("Unknown transport: %s", e.Name)
}

// Open returns the transport of a device. Simulated chips start from the
// image kept in state, or from the part's reset defaults when state holds
// nothing for the device, and write every change back to state.
func Open(dev *config.Device, state *regstate.RegState) (gmsl.Transport, error) {
	switch dev.Transport {
	case config.TransportI2C:
		t, err := i2c.NewTransport(dev.Bus, dev.Address)
		if err != nil {
			return nil, err
		}
		return t, nil
	case config.TransportSim:
		chip, err := openSim(dev.Name, state)
		if err != nil {
			return nil, err
		}
		return chip, nil
	}
	return nil, ErrUnknownTransport{Name: dev.Transport}
}

// Close releases t if it holds a resource such as an open bus device.
func Close(t gmsl.Transport) error {
	if c, ok := t.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func openSim(name string, state *regstate.RegState) (*sim.Chip, error) {
	image := max96792.ResetDefaults()
	if state == nil {
		return sim.NewChip(image), nil
	}
	regs, err := state.GetRegAll(name)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		log.Info("Initializing simulated register image for %s", name)
		chip := sim.NewChip(image)
		if err := state.SetRegs(name, chip.Image()); err != nil {
			return nil, err
		}
		chip.Persist = func(reg *gmsl.Reg) error { return state.SetReg(name, reg) }
		return chip, nil
	}
	image = make(map[uint16]uint8, len(regs))
	for _, reg := range regs {
		image[reg.Addr] = reg.Value
	}
	chip := sim.NewChip(image)
	chip.Persist = func(reg *gmsl.Reg) error { return state.SetReg(name, reg) }
	return chip, nil
}
