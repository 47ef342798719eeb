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

// Packed describes a register family holding PerReg values of Bits bits each,
// starting at Base and packed from the least significant bit upwards.
// Entry i lives in register Base + i/PerReg at bit offset Bits*(i%PerReg).
type Packed struct {
	Base   uint16
	Bits   uint
	PerReg int
}

// Locate returns the register address and the in-register mask of entry i.
func (p Packed) Locate(i int) (uint16, uint8) {
	addr := p.Base + uint16(i/p.PerReg)
	mask := uint8(((uint(1) << p.Bits) - 1) << (p.Bits * uint(i%p.PerReg)))
	return addr, mask
}

// Field returns entry i as a Field.
func (p Packed) Field(i int) Field {
	addr, mask := p.Locate(i)
	return Field{Addr: addr, Mask: mask}
}

// Strided describes a register family where entry i sits at Base + Stride*i.
// The remap source/destination pairs use it with a stride of 2.
type Strided struct {
	Base   uint16
	Stride uint16
}

// Addr returns the address of entry i.
func (s Strided) Addr(i int) uint16 {
	return s.Base + s.Stride*uint16(i)
}
