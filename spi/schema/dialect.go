/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package schema

// SourceDialect describes properties of the document store the
// records originate from.
type SourceDialect interface {
	IsPrimaryKey(
		column string,
	) bool
}

type SourceDialectFunc func(column string) bool

func (sdf SourceDialectFunc) IsPrimaryKey(
	column string,
) bool {

	return sdf(column)
}

const mongoPrimaryKey = "_id"

// MongoDialect marks the MongoDB document id as primary key.
var MongoDialect SourceDialect = SourceDialectFunc(func(column string) bool {
	return column == mongoPrimaryKey
})

// NoPrimaryKeys never marks a column as primary key.
var NoPrimaryKeys SourceDialect = SourceDialectFunc(func(_ string) bool {
	return false
})
