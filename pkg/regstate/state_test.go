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

package regstate

import (
	"errors"
	"path/filepath"
	"testing"

	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

func openState(t *testing.T, devices ...string) *RegState {
	t.Helper()
	s, err := NewRegState(filepath.Join(t.TempDir(), "regs.db"), devices)
	if err != nil {
		t.Fatalf("NewRegState: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetReg(t *testing.T) {
	s := openState(t, "des0", "des1")
	if err := s.SetReg("des0", &gmsl.Reg{Addr: 0x0161, Value: 0x29}); err != nil {
		t.Fatal(err)
	}
	reg, err := s.GetReg("des0", 0x0161)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Value != 0x29 {
		t.Errorf("value = 0x%02x", reg.Value)
	}

	var notFound ErrKeyNotFound
	if _, err := s.GetReg("des1", 0x0161); !errors.As(err, &notFound) {
		t.Errorf("other device error = %v", err)
	}
	var noBucket ErrBucketNotFound
	if err := s.SetReg("nope", &gmsl.Reg{}); !errors.As(err, &noBucket) {
		t.Errorf("unknown device error = %v", err)
	}
}

func TestGetRegAllIsOrdered(t *testing.T) {
	s := openState(t, "des0")
	regs := []*gmsl.Reg{{Addr: 0x5009, Value: 8}, {Addr: 0x000D, Value: 0xB6}, {Addr: 0x0160, Value: 1}}
	if err := s.SetRegs("des0", regs); err != nil {
		t.Fatal(err)
	}
	all, err := s.GetRegAll("des0")
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{0x000D, 0x0160, 0x5009}
	if len(all) != len(want) {
		t.Fatalf("%d registers", len(all))
	}
	for i, addr := range want {
		if all[i].Addr != addr {
			t.Errorf("register %d at 0x%04x, want 0x%04x", i, all[i].Addr, addr)
		}
	}
}

func TestStatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regs.db")
	s, err := NewRegState(path, []string{"des0"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetReg("des0", &gmsl.Reg{Addr: 0x0010, Value: 0x03}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewRegState(path, []string{"des0"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	reg, err := s.GetReg("des0", 0x0010)
	if err != nil || reg.Value != 0x03 {
		t.Errorf("GetReg after reopen = %+v, %v", reg, err)
	}
}
