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
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-gmsl/cmd/control/reg"
	"jinr.ru/greenlab/go-gmsl/pkg/command"
	"jinr.ru/greenlab/go-gmsl/pkg/config"
)

const (
	DeviceOptionName = "device"
	JSONOptionName   = "json"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Run the control server or send requests to it",
	}
	cmd.AddCommand(NewStartCommand(cfg))
	cmd.AddCommand(NewDevicesCommand(cfg))
	cmd.AddCommand(NewApplyCommand(cfg))
	cmd.AddCommand(NewDiagCommand(cfg))
	cmd.AddCommand(reg.NewCommand(cfg))
	return cmd
}

func NewDevicesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices managed by the control server",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := command.NewApiClient(cfg).Devices()
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s index=%d transport=%s tunnel=%t\n",
					info.Name, info.Index, info.Transport, info.TunnelMode)
			}
			return nil
		},
	}
	return cmd
}

func NewApplyCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Ask the control server to apply the configured init parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).Apply(device)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	return cmd
}

func NewDiagCommand(cfg *config.Config) *cobra.Command {
	var device string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "diag [category...]",
		Short: "Run diagnostics on the control server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			if len(args) == 1 && !asJSON {
				entry, err := client.DiagCategory(device, args[0])
				if err != nil {
					return err
				}
				command.PrintEntry(cmd.OutOrStdout(), entry)
				return nil
			}
			report, err := client.Diag(device, args...)
			if err != nil {
				return err
			}
			return command.PrintReport(cmd.OutOrStdout(), report, asJSON)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().BoolVar(&asJSON, JSONOptionName, false, "Print the report as JSON")
	return cmd
}
