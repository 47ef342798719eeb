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

package reg

import (
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-gmsl/pkg/command"
	"jinr.ru/greenlab/go-gmsl/pkg/config"
)

func NewReadCommand(cfg *config.Config) *cobra.Command {
	var device, addr string
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read value from register, all named registers when no address is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			if addr != "" {
				value, err := client.RegRead(device, addr)
				if err != nil {
					return err
				}
				return printReg(cmd.OutOrStdout(), addr, value)
			}
			regs, err := client.RegReadAll(device)
			if err != nil {
				return err
			}
			for _, r := range regs {
				if err := printReg(cmd.OutOrStdout(), r.Addr, r.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Register address (hexadecimal)")

	return cmd
}
