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
	"github.com/go-errors/errors"
	"github.com/moby/sys/atomicwriter"
	"github.com/noctarius/document-relationalizer/spi/document"
	"os"
)

const (
	fieldType      = "type"
	fieldIsPrimary = "is_primary"
)

// Serialize encodes the schema as JSON, keeping table and column order:
//
//	{"<table>": {"<column>": {"type": "<descriptor>", "is_primary": false}}}
func (s *Schema) Serialize() ([]byte, error) {
	return s.toObject().MarshalJSON()
}

// Deserialize decodes a schema previously encoded by Serialize.
func Deserialize(
	data []byte, options ...Option,
) (*Schema, error) {

	value, err := document.ParseJSON(data)
	if err != nil {
		return nil, err
	}

	tables, ok := value.AsObject()
	if !ok {
		return nil, errors.Errorf("schema must be a JSON object, got %s", value.Kind())
	}

	schema := NewSchema(options...)
	var decodeErr error
	tables.Range(func(tableName string, tableValue document.Value) bool {
		columns, ok := tableValue.AsObject()
		if !ok {
			decodeErr = errors.Errorf("table '%s' must be a JSON object", tableName)
			return false
		}

		table := schema.TableOrCreate(tableName)
		columns.Range(func(columnName string, columnValue document.Value) bool {
			column, err := decodeColumn(columnName, columnValue)
			if err != nil {
				decodeErr = errors.Errorf("column '%s' of table '%s': %s", columnName, tableName, err)
				return false
			}
			table.addColumn(column)
			return true
		})
		return decodeErr == nil
	})

	if decodeErr != nil {
		return nil, decodeErr
	}
	return schema, nil
}

// SaveFile atomically writes the serialized schema to path.
func (s *Schema) SaveFile(
	path string,
) error {

	data, err := s.Serialize()
	if err != nil {
		return err
	}
	if err := atomicwriter.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func LoadFile(
	path string, options ...Option,
) (*Schema, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return Deserialize(data, options...)
}

func (s *Schema) toObject() *document.Object {
	tables := document.NewObjectWithCapacity(len(s.tables))
	for _, table := range s.tables {
		columns := document.NewObjectWithCapacity(len(table.columns))
		for _, column := range table.columns {
			entry := document.NewObjectWithCapacity(2)
			entry.Set(fieldType, document.String(column.Descriptor.String()))
			entry.Set(fieldIsPrimary, document.Bool(column.Primary))
			columns.Set(column.Name, document.ObjectOf(entry))
		}
		tables.Set(table.name, document.ObjectOf(columns))
	}
	return tables
}

func decodeColumn(
	name string, value document.Value,
) (*Column, error) {

	entry, ok := value.AsObject()
	if !ok {
		return nil, errors.New("column must be a JSON object")
	}

	typeValue, _ := entry.Get(fieldType)
	typeText, ok := typeValue.AsString()
	if !ok {
		return nil, errors.New("missing type")
	}

	descriptor, err := ParseDescriptor(typeText)
	if err != nil {
		return nil, err
	}

	primaryValue, _ := entry.Get(fieldIsPrimary)
	primary, _ := primaryValue.AsBool()

	return &Column{
		Name:       name,
		Descriptor: descriptor,
		Primary:    primary,
	}, nil
}
