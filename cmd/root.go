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

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-gmsl/cmd/completion"
	"jinr.ru/greenlab/go-gmsl/cmd/config"
	"jinr.ru/greenlab/go-gmsl/cmd/control"
	"jinr.ru/greenlab/go-gmsl/cmd/device"
	"jinr.ru/greenlab/go-gmsl/cmd/reg"
	pkgconfig "jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath string
	cfg := pkgconfig.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:           "go-gmsl",
		Short:         "Tool to configure and diagnose GMSL deserializers",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg.SetPath(configPath)
			}
			if err := cfg.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return initLog(cmd, cfg, logLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(control.NewCommand(cfg))
	cmd.AddCommand(device.NewCommand(cfg))
	cmd.AddCommand(reg.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "", fmt.Sprintf("Config file. Default %s", pkgconfig.DefaultConfigPath()))
	return cmd
}

func initLog(cmd *cobra.Command, cfg *pkgconfig.Config, logLevel string) error {
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = pkgconfig.DefaultLogLevel
	}
	return log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
}
