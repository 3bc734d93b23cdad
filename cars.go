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

// Package cars wires the repositories of the cars store to a database.
package cars

import (
	"context"
	"fmt"

	"github.com/tomoncle/cars/database"
	"github.com/tomoncle/cars/repository"
	"github.com/uptrace/bun"
)

// Store groups the repositories sharing one database session.
type Store struct {
	Owners  *repository.OwnerRepository
	Posts   *repository.PostRepository
	Cars    *repository.CarRepository
	Session *repository.CrudRepository

	factory *database.BaseDatabaseFactory
}

// NewStore builds a store over an open connection. Close is then a no-op;
// the caller owns db.
func NewStore(db *bun.DB, opts ...repository.PostOption) *Store {
	session := repository.NewCrudRepository(db)
	return &Store{
		Owners:  repository.NewOwnerRepository(session),
		Posts:   repository.NewPostRepository(session, opts...),
		Cars:    repository.NewCarRepository(session),
		Session: session,
	}
}

// Open connects using cfg, migrates the schema and returns a store owning
// the connection.
func Open(ctx context.Context, cfg *database.Config, opts ...repository.PostOption) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	local := *cfg
	local.DataMigrateConfig.EnableMigrateOnStartup = true

	factory := database.NewDatabaseFactory()
	if _, err := factory.CreateFromConfig(&local); err != nil {
		return nil, err
	}
	if err := factory.InitializeDatabase(ctx); err != nil {
		_ = factory.Close()
		return nil, err
	}

	db := factory.GetDB()
	db.RegisterModel(database.RegisteredModelInstances()...)
	store := NewStore(db, opts...)
	store.factory = factory
	return store, nil
}

// Health reports the state of a connection opened by Open.
func (s *Store) Health(ctx context.Context) *database.HealthStatus {
	if s.factory == nil {
		return &database.HealthStatus{LastError: "store does not own its connection"}
	}
	return s.factory.GetHealthStatus(ctx)
}

func (s *Store) Close() error {
	if s.factory == nil {
		return nil
	}
	return s.factory.Close()
}
