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
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomoncle/cars/database"
	"github.com/tomoncle/cars/types"
	"github.com/tomoncle/cars/utils"
	"github.com/uptrace/bun"
)

// ErrNilEntity is returned when a nil model is passed to a write operation.
var ErrNilEntity = errors.New("repository: nil entity")

// QueryFunc customises a select query before it runs.
type QueryFunc func(q *bun.SelectQuery) *bun.SelectQuery

// UnitOfWork runs against the transaction handed out by Session.Run.
type UnitOfWork func(ctx context.Context, db bun.IDB) error

// Session is what entity repositories need from the database.
type Session interface {
	// Select scans the rows chosen by build into dest, a pointer to a model
	// struct or a slice of them.
	Select(ctx context.Context, dest interface{}, build QueryFunc) error
	// Run executes fn in a transaction. It commits when fn returns nil and
	// rolls back on error or panic.
	Run(ctx context.Context, fn UnitOfWork) error
	// Tx is Run for units of work reporting a boolean outcome.
	Tx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) (bool, error)) (bool, error)
}

// CrudRepository implements Session over a Bun database.
type CrudRepository struct {
	db     *bun.DB
	logger database.Logger
}

func NewCrudRepository(db *bun.DB) *CrudRepository {
	return &CrudRepository{
		db:     db,
		logger: database.NewDefaultLogger(utils.NewLogger("REPOSITORY")),
	}
}

// SetLogger replaces the logger used for failed units of work.
func (r *CrudRepository) SetLogger(logger database.Logger) {
	r.logger = logger
}

func (r *CrudRepository) DB() *bun.DB { return r.db }

func (r *CrudRepository) Select(ctx context.Context, dest interface{}, build QueryFunc) error {
	q := r.db.NewSelect().Model(dest)
	if build != nil {
		q = build(q)
	}
	err := q.Scan(ctx)
	if err != nil && !database.IsNoRows(err) {
		r.logger.Debug("select failed", "model", fmt.Sprintf("%T", dest), "error", err)
	}
	return err
}

func (r *CrudRepository) Run(ctx context.Context, fn UnitOfWork) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
	if err != nil {
		r.logger.Debug("unit of work rolled back", "error", err)
	}
	return err
}

func (r *CrudRepository) Tx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) (bool, error)) (bool, error) {
	var result bool
	err := r.Run(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		result, err = fn(ctx, db)
		return err
	})
	if err != nil {
		return false, err
	}
	return result, nil
}

// Optional returns the single row chosen by build, or nil when none matched.
func Optional[T any](ctx context.Context, s Session, build QueryFunc) (*T, error) {
	var entity T
	if err := s.Select(ctx, &entity, build); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// Query returns the rows chosen by build. No match yields an empty slice.
func Query[T any](ctx context.Context, s Session, build QueryFunc) ([]*T, error) {
	entities := make([]*T, 0)
	if err := s.Select(ctx, &entities, build); err != nil {
		return nil, err
	}
	if entities == nil {
		entities = make([]*T, 0)
	}
	return entities, nil
}

// RowsAffected reports the affected row count of an exec result.
func RowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindByID selects the row with the given primary key.
func FindByID[T any](ctx context.Context, s Session, id interface{}, build QueryFunc) (*T, error) {
	return Optional[T](ctx, s, func(q *bun.SelectQuery) *bun.SelectQuery {
		if build != nil {
			q = build(q)
		}
		return q.Where("?TableAlias.id = ?", id)
	})
}

// FindAll selects every row ordered by primary key.
func FindAll[T any](ctx context.Context, s Session, build QueryFunc) ([]*T, error) {
	return Query[T](ctx, s, func(q *bun.SelectQuery) *bun.SelectQuery {
		if build != nil {
			q = build(q)
		}
		return q.OrderExpr("?TableAlias.id ASC")
	})
}

// Insert writes entities and fills their generated keys.
func Insert[T any](ctx context.Context, db bun.IDB, entities ...*T) error {
	if len(entities) == 0 {
		return nil
	}
	for _, entity := range entities {
		if entity == nil {
			return ErrNilEntity
		}
	}
	if len(entities) == 1 {
		_, err := db.NewInsert().Model(entities[0]).Exec(ctx)
		return err
	}
	_, err := db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

// UpdateByPK writes all columns of entity, or only columns when given.
func UpdateByPK[T any](ctx context.Context, db bun.IDB, entity *T, columns ...string) (int64, error) {
	if entity == nil {
		return 0, ErrNilEntity
	}
	q := db.NewUpdate().Model(entity).WherePK()
	if len(columns) > 0 {
		q = q.Column(columns...)
	}
	return RowsAffected(q.Exec(ctx))
}

// DeleteByID removes the row with the given primary key.
func DeleteByID[T any](ctx context.Context, db bun.IDB, id interface{}) (int64, error) {
	return RowsAffected(db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx))
}

// Page selects one page of rows and the total count of matching rows.
func Page[T any](ctx context.Context, s Session, req *types.PageRequest, build QueryFunc) (*types.Pagination[T], error) {
	pagination := types.NewPagination[T](req)
	items := make([]*T, 0)
	err := s.Run(ctx, func(ctx context.Context, db bun.IDB) error {
		q := db.NewSelect().Model(&items)
		if build != nil {
			q = build(q)
		}
		if filter := req.GetFilter(); filter != nil {
			q = q.Where(filter.Schema, filter.Args...)
		}
		if orders := req.GetOrders(); len(orders) > 0 {
			q = q.Order(orders...)
		}
		total, err := q.Offset(req.GetOffset()).Limit(req.GetPageSize()).ScanAndCount(ctx)
		pagination.Total = total
		return err
	})
	if err != nil {
		return nil, err
	}
	if items != nil {
		pagination.Items = items
	}
	return pagination, nil
}
