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

package database

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"gopkg.in/yaml.v3"
)

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete"` // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string `yaml:"on_update"`
	ConstraintName  string `yaml:"constraint_name"`
}

// ForeignKeyConfig is the layout of the YAML foreign key file.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// GenerateConstraintName returns the explicit name or fk_<table>_<column>.
func (fk *ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// GenerateSQL returns the ALTER TABLE statement adding the constraint.
func (fk *ForeignKeyConstraint) GenerateSQL() string {
	sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		fk.Table, fk.GenerateConstraintName(), fk.Column, fk.ReferenceTable, fk.ReferenceColumn)
	if fk.OnDelete != "" {
		sql += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sql += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return sql
}

// ForeignKeyManager adds and validates foreign key constraints.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

var defaultForeignKeys []ForeignKeyConstraint

// RegisterForeignKey adds a code-defined constraint used when no YAML file
// is configured.
func RegisterForeignKey(fk ForeignKeyConstraint) {
	defaultForeignKeys = append(defaultForeignKeys, fk)
}

// NewForeignKeyManager creates a manager for the given constraints. With a
// nil slice the registered constraints are used.
func NewForeignKeyManager(logger Logger, constraints []ForeignKeyConstraint) *ForeignKeyManager {
	if constraints == nil {
		constraints = append([]ForeignKeyConstraint(nil), defaultForeignKeys...)
	}
	return &ForeignKeyManager{constraints: constraints, logger: logger}
}

// LoadForeignKeyFile reads constraints from a YAML file.
func LoadForeignKeyFile(path string) ([]ForeignKeyConstraint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign key file: %w", err)
	}
	var cfg ForeignKeyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse foreign key file: %w", err)
	}
	return cfg.ForeignKeys, nil
}

// AddAllForeignKeys adds every constraint. Failures of single constraints
// are logged and skipped. SQLite cannot add constraints to existing tables,
// so nothing is done there.
func (fkm *ForeignKeyManager) AddAllForeignKeys(ctx context.Context, db bun.IDB) error {
	if db.Dialect().Name() == dialect.SQLite {
		fkm.logger.Debug("Skipping foreign keys, not supported by dialect", "dialect", db.Dialect().Name().String())
		return nil
	}
	for _, constraint := range fkm.constraints {
		if _, err := db.ExecContext(ctx, constraint.GenerateSQL()); err != nil {
			fkm.logger.Debug("Failed to add foreign key constraint", "constraint", constraint.GenerateConstraintName(), "error", err.Error())
			continue
		}
		fkm.logger.Debug("Successfully added foreign key constraint", "constraint", constraint.GenerateConstraintName())
	}
	return nil
}

// GetConstraintsByTable returns the constraints defined for a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, constraint := range fkm.constraints {
		if strings.EqualFold(constraint.Table, tableName) {
			result = append(result, constraint)
		}
	}
	return result
}

// ValidateConstraints checks the configured constraints for missing names
// and unknown referential actions.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for _, c := range fkm.constraints {
		if c.Table == "" || c.Column == "" || c.ReferenceTable == "" || c.ReferenceColumn == "" {
			errs = append(errs, fmt.Errorf("incomplete foreign key: %s.%s -> %s.%s", c.Table, c.Column, c.ReferenceTable, c.ReferenceColumn))
		}
		for _, action := range []string{c.OnDelete, c.OnUpdate} {
			if action != "" && !validReferentialAction(action) {
				errs = append(errs, fmt.Errorf("invalid referential action: %s, constraint: %s", action, c.GenerateConstraintName()))
			}
		}
	}
	return errs
}

func validReferentialAction(action string) bool {
	for _, valid := range []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"} {
		if strings.EqualFold(action, valid) {
			return true
		}
	}
	return false
}
