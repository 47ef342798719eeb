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

package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	completionExample = `
Save bash completion to a file
# go-gmsl completion > $HOME/.go-gmsl_completions

Apply completions to the current bash instance
# source <(go-gmsl completion)

Load zsh completion
# go-gmsl completion zsh > "${fpath[1]}/_go-gmsl"
`
)

// NewCommand creates a cobra command object for generating shell completion scripts
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate completion script",
		Example:   completionExample,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) > 0 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			}
			return fmt.Errorf("Unsupported shell: %s", shell)
		},
	}
	return cmd
}
