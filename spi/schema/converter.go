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

import (
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/samber/lo"
	"sort"
)

// ConvertObject rewrites the record according to the table schema.
// Every value of a composite column moves into the type suffixed
// column matching its own type ("<column>_<tag>"), the other type
// suffixed columns stay absent. Null values of composite columns
// produce no column. Arrays and objects, which are kept verbatim when
// arrays or objects are ignored, always stay under the original column
// name. Columns with a single type, unknown columns and values of a
// type the descriptor doesn't know are passed through unchanged.
// Columns dropped from the schema are removed.
func (t *TableSchema) ConvertObject(
	record *document.Object,
) *document.Object {

	result := document.NewObjectWithCapacity(record.Len())
	record.Range(func(key string, value document.Value) bool {
		if t.dropped[key] {
			return true
		}

		column, present := t.index[key]
		if !present || !column.Descriptor.IsComposite() || !value.IsScalar() {
			result.Set(key, value)
			return true
		}

		if value.IsNull() {
			return true
		}

		tag := Classify(value)
		if !column.Descriptor.Contains(tag) {
			t.logger.Warnf(
				"Value of type %s in column '%s' of table '%s' isn't covered by %s, passing it through",
				tag, key, t.name, column.Descriptor,
			)
			result.Set(key, value)
			return true
		}

		result.Set(suffixedColumnName(key, tag), value)
		return true
	})
	return result
}

// OutputColumns returns the sorted set of column names records of
// this table can have after ConvertObject. Columns which held arrays
// or objects are listed under their original name.
func (t *TableSchema) OutputColumns() []string {
	columns := make(map[string]bool, len(t.columns)+len(t.structural))
	for _, column := range t.columns {
		if !column.Descriptor.IsComposite() {
			columns[column.Name] = true
			continue
		}
		for _, tag := range column.Descriptor.Tags() {
			columns[suffixedColumnName(column.Name, tag)] = true
		}
	}
	for name := range t.structural {
		if !t.dropped[name] {
			columns[name] = true
		}
	}

	names := lo.Keys(columns)
	sort.Strings(names)
	return names
}

func suffixedColumnName(
	column string, tag TypeTag,
) string {

	return column + "_" + string(tag)
}
