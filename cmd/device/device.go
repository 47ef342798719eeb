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

// Package device works with a configured device directly, without the
// control server.
package device

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-gmsl/pkg/command"
	"jinr.ru/greenlab/go-gmsl/pkg/config"
	pkgdevice "jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/device/max96792"
	"jinr.ru/greenlab/go-gmsl/pkg/diag"
)

const (
	DeviceOptionName = "device"
	JSONOptionName   = "json"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Configure and diagnose a local device",
	}
	cmd.AddCommand(NewApplyCommand(cfg))
	cmd.AddCommand(NewDiagCommand(cfg))
	cmd.AddCommand(NewInfoCommand(cfg))
	cmd.AddCommand(NewDumpCommand(cfg))
	return cmd
}

func NewApplyCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Write the configured init parameters to the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := command.OpenDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.Apply(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration applied to %s\n", d.GetName())
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	return cmd
}

func NewDiagCommand(cfg *config.Config) *cobra.Command {
	var device string
	var asJSON bool
	cmd := &cobra.Command{
		Use:       "diag [category...]",
		Short:     "Run diagnostics, all categories when none is given",
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cats []pkgdevice.Category
			for _, arg := range args {
				c, err := diag.ParseCategory(arg)
				if err != nil {
					return err
				}
				cats = append(cats, c)
			}
			d, err := command.OpenDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			raw, err := command.ToRawReport(diag.Run(d.Diagnostics(), cats...))
			if err != nil {
				return err
			}
			return command.PrintReport(cmd.OutOrStdout(), raw, asJSON)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().BoolVar(&asJSON, JSONOptionName, false, "Print the report as JSON")
	return cmd
}

func categoryNames() []string {
	var names []string
	for _, c := range diag.Categories() {
		names = append(names, string(c))
	}
	return names
}

func NewInfoCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Identify the part and print which links, pipes and PHYs are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := command.OpenDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			out := cmd.OutOrStdout()
			part, rev := d.Part()
			fmt.Fprintf(out, "Device: %s\nPart: %s revision %d\nTunnel mode: %t\n", d.GetName(), part, rev, d.TunnelMode())
			links, err := d.LinksEnabled()
			if err != nil {
				return err
			}
			pipes, err := d.PipesEnabled()
			if err != nil {
				return err
			}
			phys, err := d.PhysEnabled()
			if err != nil {
				return err
			}
			for i, on := range links {
				fmt.Fprintf(out, "Link %s: %s\n", pkgdevice.Link(i), onOff(on))
			}
			for i, on := range pipes {
				fmt.Fprintf(out, "Pipe %s: %s\n", pkgdevice.Pipe(i+1), onOff(on))
			}
			for i, on := range phys {
				fmt.Fprintf(out, "PHY %d: %s\n", i, onOff(on))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	return cmd
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func NewDumpCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every named register",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := command.OpenDevice(cfg, device)
			if err != nil {
				return err
			}
			defer d.Close()
			regs, err := d.RegReadAll()
			if err != nil {
				return err
			}
			for _, reg := range regs {
				addr, value := reg.Hex()
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s = %s\n", max96792.RegName(reg.Addr), addr, value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	return cmd
}
