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

// Package config loads the carsctl configuration file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tomoncle/cars/database"
)

const EnvPrefix = "CARS"

type Config struct {
	Database database.Config `mapstructure:"database"`
	Log      LogConfig       `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads path, or carsctl.yaml from . and ./configs when path is empty.
// A missing default file is not an error. CARS_* variables override file
// values, e.g. CARS_DATABASE_CONNECTION_HOST.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("carsctl")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading configuration: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := database.DefaultConfig()
	conn := d.ConnectionConfig

	v.SetDefault("database.connection.type", "sqlite")
	v.SetDefault("database.connection.host", "localhost")
	v.SetDefault("database.connection.port", 0)
	v.SetDefault("database.connection.username", "")
	v.SetDefault("database.connection.password", "")
	v.SetDefault("database.connection.dbname", "cars")
	v.SetDefault("database.connection.sslmode", "")
	v.SetDefault("database.connection.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("database.connection.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("database.connection.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("database.connection.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", conn.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", conn.WriteTimeout)
	v.SetDefault("database.connection.enable_reconnect", conn.EnableReconnect)
	v.SetDefault("database.connection.reconnect_interval", conn.ReconnectInterval)
	v.SetDefault("database.connection.max_reconnect_tries", conn.MaxReconnectTries)
	v.SetDefault("database.connection.health_check_interval", time.Duration(0))
	v.SetDefault("database.connection.enable_query_log", false)
	v.SetDefault("database.connection.slow_query_time", conn.SlowQueryTime)

	v.SetDefault("database.migrate.enable_migrate_on_startup", false)
	v.SetDefault("database.migrate.enable_foreign_key", true)
	v.SetDefault("database.migrate.foreign_key_file", "")

	v.SetDefault("database.init.auto_init_on_startup", false)
	v.SetDefault("database.init.auto_init_on_migration", false)
	v.SetDefault("database.init.filepath", d.DataInitConfig.Filepath)
	v.SetDefault("database.init.environment", d.DataInitConfig.Environment)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
