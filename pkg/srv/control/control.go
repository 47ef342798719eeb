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

package control

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/device"
	deviceifc "jinr.ru/greenlab/go-gmsl/pkg/device/ifc"
	"jinr.ru/greenlab/go-gmsl/pkg/device/max96792"
	"jinr.ru/greenlab/go-gmsl/pkg/diag"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
	"jinr.ru/greenlab/go-gmsl/pkg/regstate"
	"jinr.ru/greenlab/go-gmsl/pkg/srv/control/ifc"
	"jinr.ru/greenlab/go-gmsl/pkg/transport"
)

// ErrDeviceClosed is returned for requests that reach a device after the
// server released it.
type ErrDeviceClosed struct {
	Name string
}

func (e ErrDeviceClosed) Error() string {
	return fmt.Sprintf("device %s is closed", e.Name)
}

// managed is a device together with the lock every request takes.
type managed struct {
	mu     sync.Mutex
	dev    deviceifc.Device
	closed bool
}

type ControlServer struct {
	context.Context
	*config.Config
	mu      sync.RWMutex
	state   *regstate.RegState
	devices map[string]*managed
	api     ifc.ApiServer
}

var _ ifc.ControlServer = &ControlServer{}

// NewControlServer opens every configured device. Devices are identified but
// not configured; Apply does that.
func NewControlServer(ctx context.Context, cfg *config.Config) (*ControlServer, error) {
	log.Debug("Initializing control server with %d devices", len(cfg.Devices))

	state, err := regstate.NewRegState(cfg.DBPath, cfg.DeviceNames())
	if err != nil {
		return nil, err
	}

	s := &ControlServer{
		Context: ctx,
		Config:  cfg,
		state:   state,
		devices: make(map[string]*managed),
	}

	for _, devCfg := range cfg.Devices {
		t, err := transport.Open(devCfg, state)
		if err != nil {
			s.Close()
			return nil, err
		}
		dev, err := max96792.New(devCfg.InitParam(), t)
		if err != nil {
			transport.Close(t)
			s.Close()
			return nil, err
		}
		s.devices[devCfg.Name] = &managed{dev: dev}
	}

	api, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.api = api
	return s, nil
}

// Run serves the API until the context is canceled or the API server fails.
// Devices are released after the API server has stopped.
func (s *ControlServer) Run() error {
	defer s.Close()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.api.Run()
	}()

	select {
	case <-s.Context.Done():
		<-errChan
		return s.Context.Err()
	case err := <-errChan:
		return err
	}
}

// Api returns the API server bound to the control server.
func (s *ControlServer) Api() ifc.ApiServer {
	return s.api
}

// Close releases every device and the register state. Requests still in
// flight get ErrDeviceClosed or ErrDeviceNotFound.
func (s *ControlServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, m := range s.devices {
		m.mu.Lock()
		if err := m.dev.Remove(); err != nil {
			log.Error("Error while removing device %s: %s", name, err)
		}
		m.closed = true
		m.mu.Unlock()
		delete(s.devices, name)
	}
	if s.state == nil {
		return nil
	}
	err := s.state.Close()
	s.state = nil
	return err
}

func (s *ControlServer) lookup(deviceName string) (*managed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.devices[deviceName]
	return m, ok
}

func (s *ControlServer) GetDeviceByName(deviceName string) (deviceifc.Device, error) {
	m, ok := s.lookup(deviceName)
	if !ok {
		return nil, config.ErrDeviceNotFound{Name: deviceName}
	}
	return m.dev, nil
}

func (s *ControlServer) DeviceNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.devices))
	for name := range s.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// with runs f holding the lock of the named device.
func (s *ControlServer) with(deviceName string, f func(d deviceifc.Device) error) error {
	m, ok := s.lookup(deviceName)
	if !ok {
		return config.ErrDeviceNotFound{Name: deviceName}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrDeviceClosed{Name: deviceName}
	}
	return f(m.dev)
}

func (s *ControlServer) RegRead(deviceName string, addr uint16) (reg *gmsl.Reg, err error) {
	err = s.with(deviceName, func(d deviceifc.Device) error {
		reg, err = d.RegRead(addr)
		return err
	})
	return reg, err
}

func (s *ControlServer) RegReadAll(deviceName string) (regs []*gmsl.Reg, err error) {
	err = s.with(deviceName, func(d deviceifc.Device) error {
		regs, err = d.RegReadAll()
		return err
	})
	return regs, err
}

func (s *ControlServer) RegWrite(deviceName string, reg *gmsl.Reg) error {
	return s.with(deviceName, func(d deviceifc.Device) error {
		return d.RegWrite(reg)
	})
}

func (s *ControlServer) Apply(deviceName string) error {
	return s.with(deviceName, func(d deviceifc.Device) error {
		log.Info("Applying configuration to %s", deviceName)
		return d.Apply()
	})
}

// Diag runs the given categories, all of them when none is given.
func (s *ControlServer) Diag(deviceName string, cats ...device.Category) (report *diag.Report, err error) {
	err = s.with(deviceName, func(d deviceifc.Device) error {
		report = diag.Run(d.Diagnostics(), cats...)
		return nil
	})
	return report, err
}

func (s *ControlServer) DiagOne(deviceName string, c device.Category) (res device.Result, err error) {
	err = s.with(deviceName, func(d deviceifc.Device) error {
		res, err = diag.RunOne(d.Diagnostics(), c)
		return err
	})
	return res, err
}
