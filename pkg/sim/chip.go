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

// Package sim provides an in-memory register file that stands in for a GMSL
// chip. A recording chip keeps every access so tests can assert on the exact
// register traffic a routine produced.
package sim

import (
	"sort"
	"sync"

	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

// Access is one recorded transport call.
type Access struct {
	Write bool
	Addr  uint16
	Value uint8
}

// Chip is a simulated register space. The zero value is not usable, call NewChip.
type Chip struct {
	mu       sync.Mutex
	regs     map[uint16]uint8
	seqs     map[uint16][]uint8
	failures map[uint16]error
	record   bool
	log      []Access

	// Persist, when set, is called after every successful write.
	Persist func(reg *gmsl.Reg) error
}

var _ gmsl.Transport = &Chip{}

// NewChip creates a chip whose registers start with the given image.
// Registers missing from the image read as zero.
func NewChip(image map[uint16]uint8) *Chip {
	c := &Chip{
		regs:     make(map[uint16]uint8),
		seqs:     make(map[uint16][]uint8),
		failures: make(map[uint16]error),
	}
	for addr, value := range image {
		c.regs[addr] = value
	}
	return c
}

// NewRecordingChip is NewChip with access recording turned on.
func NewRecordingChip(image map[uint16]uint8) *Chip {
	c := NewChip(image)
	c.record = true
	return c
}

func (c *Chip) recordAccess(a Access) {
	if c.record {
		c.log = append(c.log, a)
	}
}

// ReadReg ...
func (c *Chip) ReadReg(addr uint16) (uint8, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordAccess(Access{Addr: addr})
	if err, ok := c.failures[addr]; ok {
		return 0, gmsl.ErrTransport{Op: "read", Addr: addr, Err: err}
	}
	if seq := c.seqs[addr]; len(seq) > 0 {
		c.regs[addr] = seq[0]
		if len(seq) > 1 {
			c.seqs[addr] = seq[1:]
		}
	}
	return c.regs[addr], nil
}

// WriteReg ...
func (c *Chip) WriteReg(addr uint16, value uint8) error {
	c.mu.Lock()
	c.recordAccess(Access{Write: true, Addr: addr, Value: value})
	if err, ok := c.failures[addr]; ok {
		c.mu.Unlock()
		return gmsl.ErrTransport{Op: "write", Addr: addr, Err: err}
	}
	c.regs[addr] = value
	persist := c.Persist
	c.mu.Unlock()
	if persist != nil {
		return persist(&gmsl.Reg{Addr: addr, Value: value})
	}
	return nil
}

// Set presets a register without recording an access.
func (c *Chip) Set(addr uint16, value uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[addr] = value
}

// Get returns the current register content without recording an access.
func (c *Chip) Get(addr uint16) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[addr]
}

// Sequence makes successive reads of addr return the given values in order.
// The last value sticks once the sequence is exhausted.
func (c *Chip) Sequence(addr uint16, values ...uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[addr] = append([]uint8(nil), values...)
}

// FailOn makes every access to addr fail with err. A nil err clears it.
func (c *Chip) FailOn(addr uint16, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, addr)
		return
	}
	c.failures[addr] = err
}

// Accesses returns a copy of the recorded traffic. It is empty unless the
// chip was created with NewRecordingChip.
func (c *Chip) Accesses() []Access {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Access(nil), c.log...)
}

// ClearLog forgets the recorded traffic but keeps register contents.
func (c *Chip) ClearLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = nil
}

// Reads counts the recorded reads of addr.
func (c *Chip) Reads(addr uint16) int {
	n := 0
	for _, a := range c.Accesses() {
		if !a.Write && a.Addr == addr {
			n++
		}
	}
	return n
}

// Writes returns the values written to addr in order.
func (c *Chip) Writes(addr uint16) []uint8 {
	var values []uint8
	for _, a := range c.Accesses() {
		if a.Write && a.Addr == addr {
			values = append(values, a.Value)
		}
	}
	return values
}

// Touched reports whether addr was read or written.
func (c *Chip) Touched(addr uint16) bool {
	for _, a := range c.Accesses() {
		if a.Addr == addr {
			return true
		}
	}
	return false
}

// Image returns a snapshot of all registers sorted by address.
func (c *Chip) Image() []*gmsl.Reg {
	c.mu.Lock()
	defer c.mu.Unlock()
	regs := make([]*gmsl.Reg, 0, len(c.regs))
	for addr, value := range c.regs {
		regs = append(regs, &gmsl.Reg{Addr: addr, Value: value})
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Addr < regs[j].Addr })
	return regs
}
