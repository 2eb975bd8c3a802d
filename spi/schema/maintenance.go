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
	"golang.org/x/text/cases"
	"sort"
	"strings"
	"unicode"
)

// DefaultAllowedChars are the non alphanumeric characters accepted
// in column names by DropSpecialCharColumns.
const DefaultAllowedChars = " -_"

// DropNullColumns drops every column which never held a typed
// value and returns the number of dropped columns.
func (s *Schema) DropNullColumns() int {
	dropped := 0
	for _, table := range s.tables {
		dropped += table.DropNullColumns()
	}
	return dropped
}

// DropSpecialCharColumns drops every column whose name contains a
// character which is neither a letter, a digit nor one of allowed.
func (s *Schema) DropSpecialCharColumns(
	allowed string,
) int {

	dropped := 0
	for _, table := range s.tables {
		dropped += table.DropSpecialCharColumns(allowed)
	}
	return dropped
}

// DropDuplicateColumns drops columns whose names only differ by
// case. The first column seen is kept.
func (s *Schema) DropDuplicateColumns() int {
	dropped := 0
	for _, table := range s.tables {
		dropped += table.DropDuplicateColumns()
	}
	return dropped
}

func (t *TableSchema) DropNullColumns() int {
	names := make([]string, 0)
	for _, column := range t.columns {
		if column.Descriptor.IsNone() {
			names = append(names, column.Name)
		}
	}
	return t.dropColumns(names)
}

func (t *TableSchema) DropSpecialCharColumns(
	allowed string,
) int {

	names := make([]string, 0)
	for _, name := range t.columnNames() {
		if strings.IndexFunc(name, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(allowed, r)
		}) != -1 {
			names = append(names, name)
		}
	}
	return t.dropColumns(names)
}

func (t *TableSchema) DropDuplicateColumns() int {
	caser := cases.Fold()
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, name := range t.columnNames() {
		folded := caser.String(name)
		if seen[folded] {
			names = append(names, name)
			continue
		}
		seen[folded] = true
	}
	return t.dropColumns(names)
}

// Merge creates a new schema holding the union of all given schemas.
// Descriptors are merged tag by tag, tags of earlier schemas first.
// The dialect of the first schema is used.
func Merge(
	schemas ...*Schema,
) *Schema {

	var options []Option
	if len(schemas) > 0 {
		options = append(options, WithSourceDialect(schemas[0].dialect))
	}

	merged := NewSchema(options...)
	for _, schema := range schemas {
		for _, table := range schema.tables {
			target := merged.TableOrCreate(table.name)
			for _, column := range table.columns {
				existing, present := target.index[column.Name]
				if !present {
					target.addColumn(&Column{
						Name:       column.Name,
						Descriptor: column.Descriptor,
						Primary:    column.Primary,
					})
					continue
				}
				for _, tag := range column.Descriptor.Tags() {
					existing.Descriptor, _ = existing.Descriptor.With(tag)
				}
				existing.Primary = existing.Primary || column.Primary
			}
		}
	}
	return merged
}

// columnNames returns the typed columns in order of appearance,
// followed by the sorted names of columns which only held arrays
// or objects.
func (t *TableSchema) columnNames() []string {
	names := make([]string, 0, len(t.columns)+len(t.structural))
	for _, column := range t.columns {
		names = append(names, column.Name)
	}

	structural := make([]string, 0, len(t.structural))
	for name := range t.structural {
		if _, present := t.index[name]; !present && !t.dropped[name] {
			structural = append(structural, name)
		}
	}
	sort.Strings(structural)
	return append(names, structural...)
}
