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

// Package reg accesses device registers directly, without the control server.
package reg

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-gmsl/pkg/command"
	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/device/max96792"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

const (
	DeviceOptionName = "device"
	AddrOptionName   = "addr"
	ValueOptionName  = "value"
	MaskOptionName   = "mask"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Access registers of a local device",
	}
	cmd.AddCommand(NewGetCommand(cfg))
	cmd.AddCommand(NewSetCommand(cfg))
	cmd.AddCommand(NewUpdateCommand(cfg))
	return cmd
}

func parseAddr(addr string) (uint16, error) {
	v, err := strconv.ParseUint(addr, 0, 16)
	return uint16(v), err
}

func parseByte(value string) (uint8, error) {
	v, err := strconv.ParseUint(value, 0, 8)
	return uint8(v), err
}

func printReg(cmd *cobra.Command, reg *gmsl.Reg) {
	addr, value := reg.Hex()
	if name := max96792.RegName(reg.Addr); name != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Register state: %s = %s (%s)\n", addr, value, name)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Register state: %s = %s\n", addr, value)
}

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var device, addr string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get reg value",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAddr(addr)
			if err != nil {
				return err
			}
			d, err := command.OpenDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			reg, err := d.RegRead(a)
			if err != nil {
				return err
			}
			printReg(cmd, reg)
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Register address (hexadecimal)")
	cmd.MarkFlagRequired(AddrOptionName)

	return cmd
}

func NewSetCommand(cfg *config.Config) *cobra.Command {
	var device, addr, value string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set reg value",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := gmsl.NewRegFromHex(addr, value)
			if err != nil {
				return err
			}
			d, err := command.OpenDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			return d.RegWrite(reg)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Register address (hexadecimal)")
	cmd.MarkFlagRequired(AddrOptionName)
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Register value (hexadecimal)")
	cmd.MarkFlagRequired(ValueOptionName)

	return cmd
}

func NewUpdateCommand(cfg *config.Config) *cobra.Command {
	var device, addr, value, mask string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Read-modify-write the masked bits of a register",
		Long: "Shifts the value to the lowest set bit of the mask and replaces " +
			"the masked bits, leaving the other bits unchanged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAddr(addr)
			if err != nil {
				return err
			}
			v, err := parseByte(value)
			if err != nil {
				return err
			}
			m, err := parseByte(mask)
			if err != nil {
				return err
			}
			d, err := command.OpenDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := gmsl.Update(d.Transport(), a, v, m); err != nil {
				return err
			}
			reg, err := d.RegRead(a)
			if err != nil {
				return err
			}
			printReg(cmd, reg)
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Register address (hexadecimal)")
	cmd.MarkFlagRequired(AddrOptionName)
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Field value, right-justified")
	cmd.MarkFlagRequired(ValueOptionName)
	cmd.Flags().StringVar(&mask, MaskOptionName, "0xff", "Field mask (hexadecimal)")

	return cmd
}
