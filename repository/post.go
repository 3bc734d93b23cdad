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
	"time"

	"github.com/tomoncle/cars/model"
	"github.com/tomoncle/cars/types"
	"github.com/uptrace/bun"
)

const lastDayWindow = 24 * time.Hour

// PostRepository stores sale posts together with their photos.
type PostRepository struct {
	session Session
	now     func() time.Time
}

type PostOption func(*PostRepository)

// WithClock replaces the clock used for creation times and the last-day
// window.
func WithClock(now func() time.Time) PostOption {
	return func(r *PostRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewPostRepository(session Session, opts ...PostOption) *PostRepository {
	r := &PostRepository{session: session, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create inserts post and its photos in one transaction and returns post
// with the generated ids set. A zero Created is set to the current time.
// post is left untouched when the transaction fails.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	if post == nil {
		return nil, ErrNilEntity
	}
	photos, err := clonePhotos(post.Photos)
	if err != nil {
		return nil, err
	}

	row := *post
	row.ID = 0
	row.Photos = photos
	if row.Created.IsZero() {
		row.Created = r.now()
	}
	row.Created = row.Created.UTC()
	row.HasPhoto = row.HasPhoto || len(photos) > 0

	err = r.session.Run(ctx, func(ctx context.Context, db bun.IDB) error {
		if err := Insert(ctx, db, &row); err != nil {
			return err
		}
		return insertPhotos(ctx, db, row.ID, photos)
	})
	if err != nil {
		return nil, err
	}

	post.ID = row.ID
	post.Created = row.Created
	post.HasPhoto = row.HasPhoto
	adoptPhotos(post.Photos, photos)
	return post, nil
}

// Update writes description and has_photo of the post with post.ID and
// reports whether it exists. Non-nil Photos replace the stored photos.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) (bool, error) {
	if post == nil {
		return false, ErrNilEntity
	}
	photos, err := clonePhotos(post.Photos)
	if err != nil {
		return false, err
	}
	hasPhoto := post.HasPhoto || len(photos) > 0

	updated, err := r.session.Tx(ctx, func(ctx context.Context, db bun.IDB) (bool, error) {
		n, err := RowsAffected(db.NewUpdate().
			Model((*model.Post)(nil)).
			Set("description = ?", post.Description).
			Set("has_photo = ?", hasPhoto).
			Where("id = ?", post.ID).
			Exec(ctx))
		if err != nil || n == 0 {
			return false, err
		}
		if post.Photos == nil {
			return true, nil
		}
		if _, err := db.NewDelete().Model((*model.Photo)(nil)).Where("post_id = ?", post.ID).Exec(ctx); err != nil {
			return false, err
		}
		return true, insertPhotos(ctx, db, post.ID, photos)
	})
	if err != nil {
		return false, err
	}
	if updated {
		post.HasPhoto = hasPhoto
		adoptPhotos(post.Photos, photos)
	}
	return updated, nil
}

// Delete removes the post with id and its photos and reports whether the
// post existed.
func (r *PostRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.session.Tx(ctx, func(ctx context.Context, db bun.IDB) (bool, error) {
		if _, err := db.NewDelete().Model((*model.Photo)(nil)).Where("post_id = ?", id).Exec(ctx); err != nil {
			return false, err
		}
		n, err := DeleteByID[model.Post](ctx, db, id)
		return n > 0, err
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	return FindByID[model.Post](ctx, r.session, id, withPostDetails)
}

// FindPostsLastDay returns posts created within the last 24 hours.
func (r *PostRepository) FindPostsLastDay(ctx context.Context) ([]*model.Post, error) {
	since := r.now().Add(-lastDayWindow).UTC()
	return FindAll[model.Post](ctx, r.session, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withPostDetails(q).Where("p.created >= ?", since)
	})
}

func (r *PostRepository) FindPostsWithPhotos(ctx context.Context) ([]*model.Post, error) {
	return FindAll[model.Post](ctx, r.session, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withPostDetails(q).Where("p.has_photo = ?", true)
	})
}

// FindPostsByCarBrand returns posts whose car name equals brand exactly.
func (r *PostRepository) FindPostsByCarBrand(ctx context.Context, brand string) ([]*model.Post, error) {
	return FindAll[model.Post](ctx, r.session, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withPostDetails(q).Where("car.name = ?", brand)
	})
}

// FindPage lists posts page by page, newest first unless req orders them.
func (r *PostRepository) FindPage(ctx context.Context, req *types.PageRequest) (*types.Pagination[model.Post], error) {
	return Page[model.Post](ctx, r.session, req.OrDefaultOrders("p.created DESC", "p.id DESC"), withPostDetails)
}

func insertPhotos(ctx context.Context, db bun.IDB, postID int64, photos []*model.Photo) error {
	for _, photo := range photos {
		photo.PostID = postID
	}
	return Insert(ctx, db, photos...)
}

// clonePhotos copies photos with their ids cleared so a failed write leaves
// the caller's values as they were. nil stays nil.
func clonePhotos(photos []*model.Photo) ([]*model.Photo, error) {
	if photos == nil {
		return nil, nil
	}
	clones := make([]*model.Photo, len(photos))
	for i, photo := range photos {
		if photo == nil {
			return nil, ErrNilEntity
		}
		clone := *photo
		clone.ID = 0
		clones[i] = &clone
	}
	return clones, nil
}

func adoptPhotos(dst, src []*model.Photo) {
	for i := range dst {
		dst[i].ID = src[i].ID
		dst[i].PostID = src[i].PostID
	}
}

func withPostDetails(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Car").
		Relation("Car.Engine").
		Relation("Photos", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ph.id ASC")
		})
}
