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

// Package regstate keeps register images in a bbolt database, one bucket per
// device. The sim transport uses it to keep a simulated chip across runs.
package regstate

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

const (
	BucketNamePrefix = "reg_"
)

type ErrBucketNotFound struct {
	Name string
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", e.Name)
}

type ErrKeyNotFound struct {
	Addr uint16
}

func (e ErrKeyNotFound) Error() string {
	return fmt.Sprintf("Key not found: 0x%04x", e.Addr)
}

type RegState struct {
	DB *bbolt.DB
}

// NewRegState opens the database at path and creates a bucket for every device.
func NewRegState(path string, devices []string) (*RegState, error) {
	log.Debug("Opening register state: %s", path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range devices {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucketName(name))); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &RegState{DB: db}, nil
}

func uint16ToByte(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func bucketName(deviceName string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, deviceName)
}

// Close ...
func (s *RegState) Close() error {
	return s.DB.Close()
}

// SetReg ...
func (s *RegState) SetReg(deviceName string, reg *gmsl.Reg) error {
	log.Debug("Setting register: Device: %s Addr: %04x Value: %02x", deviceName, reg.Addr, reg.Value)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceName)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(deviceName)}
		}
		return b.Put(uint16ToByte(reg.Addr), []byte{reg.Value})
	})
}

// SetRegs stores a whole image in one transaction.
func (s *RegState) SetRegs(deviceName string, regs []*gmsl.Reg) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceName)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(deviceName)}
		}
		for _, reg := range regs {
			if err := b.Put(uint16ToByte(reg.Addr), []byte{reg.Value}); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetReg ...
func (s *RegState) GetReg(deviceName string, addr uint16) (*gmsl.Reg, error) {
	var value uint8
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceName)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(deviceName)}
		}
		valueBytes := b.Get(uint16ToByte(addr))
		if len(valueBytes) != 1 {
			return ErrKeyNotFound{Addr: addr}
		}
		value = valueBytes[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return &gmsl.Reg{Addr: addr, Value: value}, nil
}

// GetRegAll returns every stored register of a device in address order.
func (s *RegState) GetRegAll(deviceName string) ([]*gmsl.Reg, error) {
	var regs []*gmsl.Reg
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceName)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(deviceName)}
		}
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 2 || len(v) != 1 {
				return nil
			}
			regs = append(regs, &gmsl.Reg{Addr: binary.BigEndian.Uint16(k), Value: v[0]})
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return regs, nil
}
