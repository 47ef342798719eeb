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
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/device/max96792"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

const (
	DeviceOptionName = "device"
	AddrOptionName   = "addr"
	ValueOptionName  = "value"
	VerifyOptionName = "verify"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Read and write registers through the control server",
	}
	cmd.AddCommand(NewReadCommand(cfg))
	cmd.AddCommand(NewWriteCommand(cfg))
	return cmd
}

// printReg prints a register as returned by the API, with its name if known.
func printReg(out io.Writer, addr, value string) error {
	reg, err := gmsl.NewRegFromHex(addr, value)
	if err != nil {
		return err
	}
	a, v := reg.Hex()
	if name := max96792.RegName(reg.Addr); name != "" {
		fmt.Fprintf(out, "%-20s %s = %s\n", name, a, v)
		return nil
	}
	fmt.Fprintf(out, "%-20s %s = %s\n", "-", a, v)
	return nil
}
