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

// Package gmsl holds the register access primitives shared by every GMSL
// part driver: a byte-wide transport over a 16-bit register address space and
// the masked read / read-modify-write helpers built on top of it.
package gmsl

import (
	"fmt"
	"strconv"
)

// Transport moves single bytes to and from a 16-bit register address space.
// Implementations report bus failures as errors; they never retry.
type Transport interface {
	ReadReg(addr uint16) (uint8, error)
	WriteReg(addr uint16, value uint8) error
}

// Reg is a register address and the byte held there.
type Reg struct {
	Addr  uint16
	Value uint8
}

// Hex returns the address and the value as 0x-prefixed hexadecimal strings.
func (r *Reg) Hex() (string, string) {
	return fmt.Sprintf("0x%04x", r.Addr), fmt.Sprintf("0x%02x", r.Value)
}

// NewRegFromHex parses the hexadecimal representation produced by Hex.
func NewRegFromHex(addr, value string) (*Reg, error) {
	a, err := strconv.ParseUint(addr, 0, 16)
	if err != nil {
		return nil, err
	}
	v, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		return nil, err
	}
	return &Reg{Addr: uint16(a), Value: uint8(v)}, nil
}
