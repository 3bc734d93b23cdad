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

package repository

import (
	"context"

	"github.com/tomoncle/cars/model"
	"github.com/uptrace/bun"
)

type CarRepository struct {
	session Session
}

func NewCarRepository(session Session) *CarRepository {
	return &CarRepository{session: session}
}

// Create inserts car. An attached engine without an id is inserted first,
// in the same transaction.
func (r *CarRepository) Create(ctx context.Context, car *model.Car) error {
	if car == nil {
		return ErrNilEntity
	}
	return r.session.Run(ctx, func(ctx context.Context, db bun.IDB) error {
		if car.Engine != nil {
			if car.Engine.ID == 0 {
				if err := Insert(ctx, db, car.Engine); err != nil {
					return err
				}
			}
			engineID := car.Engine.ID
			car.EngineID = &engineID
		}
		return Insert(ctx, db, car)
	})
}

func (r *CarRepository) FindByID(ctx context.Context, id int64) (*model.Car, error) {
	return FindByID[model.Car](ctx, r.session, id, withEngine)
}

// FindByName returns the cars whose name equals name.
func (r *CarRepository) FindByName(ctx context.Context, name string) ([]*model.Car, error) {
	return FindAll[model.Car](ctx, r.session, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withEngine(q).Where("c.name = ?", name)
	})
}

func withEngine(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Engine")
}
