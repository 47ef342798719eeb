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

package gmsl

import (
	"math/bits"

	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

// shift returns the position of the lowest set bit of mask. A zero mask
// yields 0 so that Read and Update degrade to no-ops on the value.
func shift(mask uint8) uint {
	if mask == 0 {
		return 0
	}
	return uint(bits.TrailingZeros8(mask))
}

// Read returns the bits selected by mask, right-justified.
func Read(t Transport, addr uint16, mask uint8) (uint8, error) {
	v, err := t.ReadReg(addr)
	if err != nil {
		return 0, err
	}
	return (v & mask) >> shift(mask), nil
}

// Update performs a read-modify-write of the field selected by mask. value is
// given right-justified and is moved to the lowest set bit of mask; bits
// outside mask keep their current state.
func Update(t Transport, addr uint16, value, mask uint8) error {
	old, err := t.ReadReg(addr)
	if err != nil {
		return err
	}
	v := (old &^ mask) | ((value << shift(mask)) & mask)
	log.Debug("Updating register: Addr: %04x Mask: %02x Value: %02x -> %02x", addr, mask, old, v)
	return t.WriteReg(addr, v)
}

// Write stores a full byte without reading the register first.
func Write(t Transport, addr uint16, value uint8) error {
	log.Debug("Writing register: Addr: %04x Value: %02x", addr, value)
	return t.WriteReg(addr, value)
}

// Field is a masked bit field of a single register.
type Field struct {
	Addr uint16
	Mask uint8
}

// Read returns the right-justified field value.
func (f Field) Read(t Transport) (uint8, error) {
	return Read(t, f.Addr, f.Mask)
}

// Update writes value into the field.
func (f Field) Update(t Transport, value uint8) error {
	return Update(t, f.Addr, value, f.Mask)
}

// Set reads the field as a flag.
func (f Field) Set(t Transport) (bool, error) {
	v, err := f.Read(t)
	return v != 0, err
}

// Enable writes 1 or 0 into a single-bit field.
func (f Field) Enable(t Transport, enable bool) error {
	return f.Update(t, boolToBit(enable))
}

func boolToBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
