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

package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tomoncle/cars/database"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := database.InitDB(ctx, opts.databaseConfig()); err != nil {
				return err
			}
			defer database.CloseDB()

			if err := database.RunMigrations(ctx); err != nil {
				return err
			}
			applied, err := database.NewMigrationManager(database.GetDB(), nil, opts.databaseConfig()).GetAppliedMigrations(ctx)
			if err != nil {
				return err
			}
			for _, m := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newSeedCommand(opts *options) *cobra.Command {
	var environment string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run the SQL seed files of an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.databaseConfig()
			cfg.DataInitConfig.AutoInitOnMigration = false
			cfg.DataInitConfig.AutoInitOnStartup = false
			if _, err := database.InitDB(ctx, cfg); err != nil {
				return err
			}
			defer database.CloseDB()

			if err := database.RunMigrations(ctx); err != nil {
				return err
			}
			return database.InitData(ctx, environment)
		},
	}
	cmd.Flags().StringVar(&environment, "env", "", "seed environment, defaults to init.environment")
	return cmd
}

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := database.InitDB(ctx, opts.databaseConfig()); err != nil {
				return err
			}
			defer database.CloseDB()

			status := database.GetHealthStatus(ctx)
			state := color.New(color.FgGreen).Sprint("UP")
			if !status.Healthy {
				state = color.New(color.FgRed).Sprint("DOWN")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tresponse_time=%s\topen=%d\tidle=%d\n",
				state, status.ResponseTime, status.ActiveConns+status.IdleConns, status.IdleConns)
			if !status.Healthy {
				return fmt.Errorf("database unhealthy: %s", status.LastError)
			}
			return nil
		},
	}
}
