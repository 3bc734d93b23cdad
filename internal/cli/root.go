/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cli implements the carsctl command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tomoncle/cars"
	"github.com/tomoncle/cars/database"
	"github.com/tomoncle/cars/internal/config"
	"github.com/tomoncle/cars/utils"
)

type options struct {
	configFile string
	logLevel   string
	cfg        *config.Config
}

// NewRootCommand builds a fresh carsctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "carsctl",
		Short:        "Manage the cars classifieds database",
		Long:         `Migrate, seed and query the owners, cars and sale posts of the cars store.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./carsctl.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level of the config file")

	root.AddCommand(
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newOwnersCommand(opts),
		newPostsCommand(opts),
		newHealthCommand(opts),
	)
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	utils.ConfigureOutput(cmd.ErrOrStderr())
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(level)
	return nil
}

// databaseConfig returns a copy so commands can adjust it freely.
func (o *options) databaseConfig() *database.Config {
	cfg := o.cfg.Database
	return &cfg
}

func (o *options) openStore(ctx context.Context) (*cars.Store, error) {
	store, err := cars.Open(ctx, o.databaseConfig())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}
