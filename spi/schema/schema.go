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
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/sink"
)

// Column is the accumulated schema information of a single column.
type Column struct {
	Name       string
	Descriptor Descriptor
	Primary    bool
}

// Schema accumulates per-table column type information across a
// stream of flat records. A Schema is owned by one processing session
// and isn't safe for concurrent mutation.
type Schema struct {
	tables  []*TableSchema
	index   map[string]*TableSchema
	dialect SourceDialect
	logger  *logging.Logger
}

type Option func(schema *Schema)

// WithSourceDialect configures the dialect used to detect primary
// key columns, the default is MongoDialect.
func WithSourceDialect(
	dialect SourceDialect,
) Option {

	return func(schema *Schema) {
		schema.dialect = dialect
	}
}

func NewSchema(
	options ...Option,
) *Schema {

	schema := &Schema{
		tables:  make([]*TableSchema, 0),
		index:   make(map[string]*TableSchema),
		dialect: MongoDialect,
		logger:  logging.MustNewLogger("Schema"),
	}
	for _, option := range options {
		option(schema)
	}
	return schema
}

// Table returns the schema of the given table, if any record of the
// table has been read.
func (s *Schema) Table(
	name string,
) (*TableSchema, bool) {

	table, present := s.index[name]
	return table, present
}

// TableOrCreate returns the schema of the given table and creates
// an empty one if necessary.
func (s *Schema) TableOrCreate(
	name string,
) *TableSchema {

	if table, present := s.index[name]; present {
		return table
	}
	table := newTableSchema(name, s.dialect, s.logger)
	s.tables = append(s.tables, table)
	s.index[name] = table
	return table
}

// Tables returns the table names in order of first appearance.
func (s *Schema) Tables() []string {
	names := make([]string, 0, len(s.tables))
	for _, table := range s.tables {
		names = append(names, table.name)
	}
	return names
}

// ReadObject merges the types of the record's values into the
// schema of the given table.
func (s *Schema) ReadObject(
	table string, record *document.Object,
) {

	s.TableOrCreate(table).ReadObject(record)
}

// ConvertObject disambiguates the record according to the schema of
// the given table. Records of unknown tables are passed through.
func (s *Schema) ConvertObject(
	table string, record *document.Object,
) *document.Object {

	if tableSchema, present := s.index[table]; present {
		return tableSchema.ConvertObject(record)
	}
	s.logger.Debugf("No schema for table '%s', passing record through", table)
	return record.Clone()
}

// Observer returns a sink.WriteObserver feeding every written
// record into this schema.
func (s *Schema) Observer() sink.WriteObserver {
	return sink.WriteObserverFunc(func(table string, record *document.Object) error {
		s.ReadObject(table, record)
		return nil
	})
}

// TableSchema is the ordered column set of one table.
type TableSchema struct {
	name    string
	columns []*Column
	index   map[string]*Column
	dropped map[string]bool
	// columns which held arrays or objects
	structural map[string]bool
	dialect    SourceDialect
	logger     *logging.Logger
}

func newTableSchema(
	name string, dialect SourceDialect, logger *logging.Logger,
) *TableSchema {

	return &TableSchema{
		name:       name,
		columns:    make([]*Column, 0),
		index:      make(map[string]*Column),
		dropped:    make(map[string]bool),
		structural: make(map[string]bool),
		dialect:    dialect,
		logger:     logger,
	}
}

func (t *TableSchema) Name() string {
	return t.name
}

// Columns returns copies of the columns in order of first appearance.
func (t *TableSchema) Columns() []Column {
	columns := make([]Column, 0, len(t.columns))
	for _, column := range t.columns {
		columns = append(columns, *column)
	}
	return columns
}

func (t *TableSchema) Column(
	name string,
) (Column, bool) {

	if column, present := t.index[name]; present {
		return *column, true
	}
	return Column{}, false
}

// ReadObject merges the record's value types into the column
// descriptors. Null values create a column but never change an
// existing descriptor. Arrays and objects can't be column types,
// only the column name is remembered.
func (t *TableSchema) ReadObject(
	record *document.Object,
) {

	record.Range(func(key string, value document.Value) bool {
		t.readValue(key, value)
		return true
	})
}

func (t *TableSchema) readValue(
	key string, value document.Value,
) {

	if t.dropped[key] {
		return
	}

	tag := Classify(value)
	if !tag.IsColumnType() {
		if !t.structural[key] {
			t.structural[key] = true
			t.logger.Warnf(
				"Column '%s' of table '%s' holds a value of type %s, which has no column type and is written as is",
				key, t.name, tag,
			)
		}
		return
	}

	column, present := t.index[key]
	if !present {
		t.addColumn(&Column{
			Name:       key,
			Descriptor: NewDescriptor(tag),
			Primary:    t.dialect.IsPrimaryKey(key),
		})
		return
	}

	if descriptor, changed := column.Descriptor.With(tag); changed {
		column.Descriptor = descriptor
		if descriptor.IsComposite() {
			t.logger.Verbosef("Column '%s' of table '%s' became %s", key, t.name, descriptor)
		}
	}
}

func (t *TableSchema) addColumn(
	column *Column,
) {

	t.columns = append(t.columns, column)
	t.index[column.Name] = column
}

func (t *TableSchema) dropColumns(
	names []string,
) int {

	if len(names) == 0 {
		return 0
	}
	for _, name := range names {
		delete(t.index, name)
		t.dropped[name] = true
	}
	columns := make([]*Column, 0, len(t.index))
	for _, column := range t.columns {
		if _, present := t.index[column.Name]; present {
			columns = append(columns, column)
		}
	}
	t.columns = columns
	return len(names)
}
