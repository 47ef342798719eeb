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

// Package i2c is a register transport over a Linux SMBus adapter. The
// deserializer uses 16-bit register addresses: the high byte goes out as the
// SMBus command and the low byte leads the data.
package i2c

import (
	"sync"

	"github.com/platinasystems/i2c"

	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

const (
	// DefaultAddress is the 7-bit address of a MAX96792 with CFG0 strapped low.
	DefaultAddress = 0x48
)

type Transport struct {
	mu      sync.Mutex
	bus     i2c.Bus
	index   int
	address int
}

var _ gmsl.Transport = &Transport{}

// NewTransport opens /dev/i2c-<index> and binds it to the device address.
func NewTransport(index, address int) (*Transport, error) {
	log.Debug("Opening i2c bus %d address 0x%02x", index, address)
	t := &Transport{index: index, address: address}
	if err := t.bus.Open(index); err != nil {
		return nil, err
	}
	if err := t.bus.ForceSlaveAddress(address); err != nil {
		t.bus.Close()
		return nil, err
	}
	return t, nil
}

// ReadReg sets the register pointer and reads one byte back.
func (t *Transport) ReadReg(addr uint16) (uint8, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var data i2c.SMBusData
	data[0] = uint8(addr & 0x00ff)
	if err := t.bus.Do(i2c.Write, uint8(addr>>8), i2c.ByteData, &data); err != nil {
		return 0, gmsl.ErrTransport{Op: "read", Addr: addr, Err: err}
	}
	if err := t.bus.Do(i2c.Read, 0, i2c.Byte, &data); err != nil {
		return 0, gmsl.ErrTransport{Op: "read", Addr: addr, Err: err}
	}
	return data[0], nil
}

// WriteReg sends the two address bytes followed by the value.
func (t *Transport) WriteReg(addr uint16, value uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var data i2c.SMBusData
	data[0] = uint8(addr & 0x00ff)
	data[1] = value
	if err := t.bus.Do(i2c.Write, uint8(addr>>8), i2c.WordData, &data); err != nil {
		return gmsl.ErrTransport{Op: "write", Addr: addr, Err: err}
	}
	return nil
}

// Close ...
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bus.Close()
	return nil
}
