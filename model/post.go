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

package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Post is a sale announcement. HasPhoto is stored alongside the photo
// collection so listings can be filtered without joining photos.
type Post struct {
	bun.BaseModel `bun:"table:post,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Description string    `bun:"description" json:"description"`
	Created     time.Time `bun:"created,notnull" json:"created"`
	HasPhoto    bool      `bun:"has_photo,notnull,default:false" json:"has_photo"`
	CarID       *int64    `bun:"car_id" json:"car_id,omitempty"`
	Car         *Car      `bun:"rel:belongs-to,join:car_id=id" json:"car,omitempty"`
	Photos      []*Photo  `bun:"rel:has-many,join:id=post_id" json:"photos,omitempty"`
}

type Photo struct {
	bun.BaseModel `bun:"table:photo,alias:ph"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	URL    string `bun:"url,notnull" json:"url"`
	PostID int64  `bun:"post_id,notnull" json:"post_id"`
}

// AddPhoto appends a photo with the given URL.
func (p *Post) AddPhoto(url string) *Photo {
	photo := &Photo{URL: url, PostID: p.ID}
	p.Photos = append(p.Photos, photo)
	return photo
}
