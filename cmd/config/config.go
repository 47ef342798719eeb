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

	"github.com/spf13/cobra"

	pkgconfig "jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

const (
	OverwriteOptionName = "overwrite"
)

// NewCommand returns the config command group. It does not load the config
// file so a broken file can be replaced.
func NewCommand(cfg *pkgconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config file",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg.SetPath(path)
			}
			return log.Init(cmd.ErrOrStderr(), pkgconfig.DefaultLogLevel)
		},
	}
	cmd.AddCommand(NewInitCommand(cfg))
	cmd.AddCommand(NewShowCommand(cfg))
	return cmd
}

func NewInitCommand(cfg *pkgconfig.Config) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			def := pkgconfig.NewDefaultConfig()
			def.SetPath(cfg.Path())
			if err := def.Persist(overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", def.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, OverwriteOptionName, false, "Overwrite existing config file")
	return cmd
}

func NewShowCommand(cfg *pkgconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Validate and print the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	return cmd
}
