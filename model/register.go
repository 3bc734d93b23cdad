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

import "github.com/tomoncle/cars/database"

func init() {
	database.RegisterModel((*Owner)(nil), 10)
	database.RegisterModel((*Engine)(nil), 10)
	database.RegisterModel((*Car)(nil), 20)
	database.RegisterModel((*Post)(nil), 30)
	database.RegisterModel((*Photo)(nil), 40)

	database.RegisterForeignKey(database.ForeignKeyConstraint{
		Table: "car", Column: "engine_id", ReferenceTable: "engine", ReferenceColumn: "id", OnDelete: "SET NULL",
	})
	database.RegisterForeignKey(database.ForeignKeyConstraint{
		Table: "post", Column: "car_id", ReferenceTable: "car", ReferenceColumn: "id", OnDelete: "SET NULL",
	})
	database.RegisterForeignKey(database.ForeignKeyConstraint{
		Table: "photo", Column: "post_id", ReferenceTable: "post", ReferenceColumn: "id", OnDelete: "CASCADE",
	})
}
