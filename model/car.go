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

import "github.com/uptrace/bun"

type Engine struct {
	bun.BaseModel `bun:"table:engine,alias:e"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

// Car is a listed vehicle. Name holds the brand that posts are searched by.
type Car struct {
	bun.BaseModel `bun:"table:car,alias:c"`

	ID       int64   `bun:"id,pk,autoincrement" json:"id"`
	Name     string  `bun:"name,notnull" json:"name"`
	EngineID *int64  `bun:"engine_id" json:"engine_id,omitempty"`
	Engine   *Engine `bun:"rel:belongs-to,join:engine_id=id" json:"engine,omitempty"`
}
