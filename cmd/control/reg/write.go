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
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-gmsl/pkg/command"
	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

func NewWriteCommand(cfg *config.Config) *cobra.Command {
	var device, addr, value string
	var verify bool
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write value to register",
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := gmsl.NewRegFromHex(addr, value)
			if err != nil {
				return err
			}
			a, v := want.Hex()
			client := command.NewApiClient(cfg)
			if err := client.RegWrite(device, a, v); err != nil {
				return err
			}
			if !verify {
				return nil
			}
			got, err := client.RegRead(device, a)
			if err != nil {
				return err
			}
			if got != v {
				return fmt.Errorf("register %s reads back %s after writing %s", a, got, v)
			}
			return printReg(cmd.OutOrStdout(), a, got)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Register address (hexadecimal)")
	cmd.MarkFlagRequired(AddrOptionName)
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Register value (hexadecimal)")
	cmd.MarkFlagRequired(ValueOptionName)
	cmd.Flags().BoolVar(&verify, VerifyOptionName, true, "Read the register back after writing")

	return cmd
}
