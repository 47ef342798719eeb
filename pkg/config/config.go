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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-gmsl/pkg/device"
)

// Device is one deserializer and the transport it is reached through.
type Device struct {
	Name string `json:"name"`
	// Index is the position of the deserializer on the board.
	Index int `json:"index"`
	// Transport is either TransportI2C or TransportSim.
	Transport string `json:"transport"`
	Bus       int    `json:"bus,omitempty"`
	Address   int    `json:"address,omitempty"`

	TunnelMode    bool                `json:"tunnelMode,omitempty"`
	Phys          []device.PhyConfig  `json:"phys,omitempty"`
	Pipes         []device.PipeConfig `json:"pipes,omitempty"`
	LinkRates     []device.LinkRate   `json:"linkRates,omitempty"`
	RemoteControl []device.Link       `json:"remoteControl,omitempty"`
}

// InitParam returns the init parameters a part driver consumes.
func (d *Device) InitParam() *device.InitParam {
	return &device.InitParam{
		Name:          d.Name,
		Index:         d.Index,
		TunnelMode:    d.TunnelMode,
		Phys:          d.Phys,
		Pipes:         d.Pipes,
		LinkRates:     d.LinkRates,
		RemoteControl: d.RemoteControl,
	}
}

type Config struct {
	LogLevel string    `json:"logLevel,omitempty"`
	IP       string    `json:"ip"`
	ApiPort  int       `json:"apiPort"`
	DBPath   string    `json:"dbPath"`
	Devices  []*Device `json:"devices"`
	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

// Marshal returns the YAML form written by Persist.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Load reads the file at the config path over the current values. The
// device list is replaced, never merged.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	c.Devices = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks device names, transports and init parameters.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for _, d := range c.Devices {
		if d.Name == "" {
			return ErrInvalid{What: "device without a name"}
		}
		if seen[d.Name] {
			return ErrInvalid{What: fmt.Sprintf("device %s defined twice", d.Name)}
		}
		seen[d.Name] = true
		if d.Transport != TransportI2C && d.Transport != TransportSim {
			return ErrInvalid{What: fmt.Sprintf("device %s: unknown transport %q", d.Name, d.Transport)}
		}
		if err := d.InitParam().Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

// GetDeviceByName ...
func (c *Config) GetDeviceByName(name string) (*Device, error) {
	for _, d := range c.Devices {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, ErrDeviceNotFound{Name: name}
}

// DeviceNames ...
func (c *Config) DeviceNames() []string {
	names := make([]string, 0, len(c.Devices))
	for _, d := range c.Devices {
		names = append(names, d.Name)
	}
	return names
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, DBFile)
}

// NewDefaultDevice returns a simulated deserializer with link A feeding pipe
// Y into PHY 1 as 4-lane D-PHY.
func NewDefaultDevice() *Device {
	return &Device{
		Name:      DefaultDeviceName,
		Transport: TransportSim,
		Bus:       DefaultBus,
		Address:   DefaultAddress,
		Phys: []device.PhyConfig{
			{
				Index:     1,
				Enabled:   true,
				NumLanes:  4,
				DataLanes: [2]uint8{0, 1},
				MipiClk:   DefaultMipiClk,
			},
		},
		Pipes: []device.PipeConfig{
			{
				ID:      device.PipeY,
				Enabled: true,
				LinkID:  uint8(device.LinkA),
				Remaps: []device.RemapEntry{
					{FromDT: 0x1E, FromVC: 0, ToDT: 0x1E, ToVC: 0, ToPhy: 1},
					{FromDT: 0x00, FromVC: 0, ToDT: 0x00, ToVC: 0, ToPhy: 1},
					{FromDT: 0x01, FromVC: 0, ToDT: 0x01, ToVC: 0, ToPhy: 1},
				},
			},
		},
		LinkRates: []device.LinkRate{
			{Link: device.LinkA, Enabled: true, Rate: device.Rate6G},
			{Link: device.LinkB, Enabled: false, Rate: device.Rate6G},
		},
		RemoteControl: []device.Link{device.LinkA},
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		IP:       DefaultIP,
		ApiPort:  DefaultApiPort,
		DBPath:   DefaultDBPath(),
		Devices:  []*Device{NewDefaultDevice()},
		filepath: DefaultConfigPath(),
	}
}
