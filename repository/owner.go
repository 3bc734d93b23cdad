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

type OwnerRepository struct {
	session Session
}

func NewOwnerRepository(session Session) *OwnerRepository {
	return &OwnerRepository{session: session}
}

// FindByID returns the owner with id, or nil when there is none.
func (r *OwnerRepository) FindByID(ctx context.Context, id int64) (*model.Owner, error) {
	return FindByID[model.Owner](ctx, r.session, id, nil)
}

func (r *OwnerRepository) FindAll(ctx context.Context) ([]*model.Owner, error) {
	return FindAll[model.Owner](ctx, r.session, nil)
}

// Save inserts owner and sets its generated id.
func (r *OwnerRepository) Save(ctx context.Context, owner *model.Owner) error {
	if owner == nil {
		return ErrNilEntity
	}
	return r.session.Run(ctx, func(ctx context.Context, db bun.IDB) error {
		return Insert(ctx, db, owner)
	})
}

// Update overwrites every column of the stored owner with owner's values.
func (r *OwnerRepository) Update(ctx context.Context, owner *model.Owner) error {
	if owner == nil {
		return ErrNilEntity
	}
	return r.session.Run(ctx, func(ctx context.Context, db bun.IDB) error {
		_, err := UpdateByPK(ctx, db, owner)
		return err
	})
}

// Delete removes the owner with id. A missing owner is not an error.
func (r *OwnerRepository) Delete(ctx context.Context, id int64) error {
	return r.session.Run(ctx, func(ctx context.Context, db bun.IDB) error {
		_, err := DeleteByID[model.Owner](ctx, db, id)
		return err
	})
}
