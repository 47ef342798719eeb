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

// Package device holds the part-independent model of a GMSL deserializer:
// link, pipe and PHY identities, the declarative init parameters consumed by
// part drivers, and the diagnostic result types they report.
package device

import (
	"fmt"
)

// Link identifies a GMSL serial link.
type Link int

const (
	LinkA Link = iota
	LinkB
	LinkCount = 2
)

// Links lists the links in register order.
var Links = []Link{LinkA, LinkB}

func (l Link) String() string {
	switch l {
	case LinkA:
		return "A"
	case LinkB:
		return "B"
	}
	return fmt.Sprintf("Link(%d)", int(l))
}

// Valid reports whether l is one of the known links.
func (l Link) Valid() bool {
	return l == LinkA || l == LinkB
}

// Bit returns the link's bit in link masks (LINK_CFG, rate and select masks).
func (l Link) Bit() uint8 {
	return 1 << uint(l)
}

func (l Link) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Link) UnmarshalText(text []byte) error {
	switch string(text) {
	case "A", "a":
		*l = LinkA
	case "B", "b":
		*l = LinkB
	default:
		return ErrInvalidConfig{What: fmt.Sprintf("unknown link %q", string(text))}
	}
	return nil
}

// Pipe identifies a video pipe. The numeric value is the pipe index used in
// register address arithmetic, so PipeY is 1.
type Pipe int

const (
	PipeY Pipe = iota + 1
	PipeZ
	PipeCount = 2
)

// Pipes lists the pipes in register order.
var Pipes = []Pipe{PipeY, PipeZ}

func (p Pipe) String() string {
	switch p {
	case PipeY:
		return "Y"
	case PipeZ:
		return "Z"
	}
	return fmt.Sprintf("Pipe(%d)", int(p))
}

// Valid reports whether p is one of the known pipes.
func (p Pipe) Valid() bool {
	return p == PipeY || p == PipeZ
}

// Slot returns the zero-based position of the pipe in per-pipe result arrays.
func (p Pipe) Slot() int {
	return int(p) - 1
}

func (p Pipe) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pipe) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Y", "y":
		*p = PipeY
	case "Z", "z":
		*p = PipeZ
	default:
		return ErrInvalidConfig{What: fmt.Sprintf("unknown pipe %q", string(text))}
	}
	return nil
}

const (
	// PhyCount is the number of MIPI PHYs. PHY n is driven by CSI controller n.
	PhyCount = 4
	// PortCount is the number of CSI ports; port A is PHY0/1, port B is PHY2/3.
	PortCount = 2
	// MaxRemaps is the number of VC/DT remap entries per pipe.
	MaxRemaps = 16
	// LineFaultCount is the number of line-fault monitors.
	LineFaultCount = 4
)

// PortOf returns the CSI port a PHY belongs to.
func PortOf(phy int) int {
	return phy / 2
}

// RxRate is the GMSL receive rate code.
type RxRate uint8

const (
	Rate3G  RxRate = 1
	Rate6G  RxRate = 2
	Rate12G RxRate = 3
)
