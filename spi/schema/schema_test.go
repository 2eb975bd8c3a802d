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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func object(keyValues ...any) *document.Object {
	o := document.NewObject()
	for i := 0; i < len(keyValues); i += 2 {
		o.Set(keyValues[i].(string), keyValues[i+1].(document.Value))
	}
	return o
}

func descriptorOf(t *testing.T, schema *Schema, table, column string) string {
	tableSchema, present := schema.Table(table)
	require.True(t, present, "table %s missing", table)
	c, present := tableSchema.Column(column)
	require.True(t, present, "column %s missing", column)
	return c.Descriptor.String()
}

func Test_Schema_ReadObject_New_Columns(
	t *testing.T,
) {

	schema := NewSchema()
	schema.ReadObject("users", object(
		"_id", document.String("abc"),
		"name", document.String("Alice"),
		"age", document.Int(42),
		"nickname", document.Null(),
	))

	assert.Equal(t, []string{"users"}, schema.Tables())
	assert.Equal(t, "str", descriptorOf(t, schema, "users", "name"))
	assert.Equal(t, "int", descriptorOf(t, schema, "users", "age"))
	assert.Equal(t, "none", descriptorOf(t, schema, "users", "nickname"))

	table, _ := schema.Table("users")
	id, _ := table.Column("_id")
	assert.True(t, id.Primary)
	name, _ := table.Column("name")
	assert.False(t, name.Primary)

	names := make([]string, 0)
	for _, column := range table.Columns() {
		names = append(names, column.Name)
	}
	assert.Equal(t, []string{"_id", "name", "age", "nickname"}, names)
}

func Test_Schema_ReadObject_Composite_First_Seen_Order(
	t *testing.T,
) {

	schema := NewSchema()
	schema.ReadObject("t", object("v", document.String("a")))
	schema.ReadObject("t", object("v", document.Int(1)))
	schema.ReadObject("t", object("v", document.String("b")))
	schema.ReadObject("t", object("v", document.Float(1.5)))

	assert.Equal(t, "c-str-int-float", descriptorOf(t, schema, "t", "v"))
}

func Test_Schema_ReadObject_Null_Never_Changes_Descriptor(
	t *testing.T,
) {

	schema := NewSchema()
	schema.ReadObject("t", object("v", document.Null()))
	assert.Equal(t, "none", descriptorOf(t, schema, "t", "v"))

	schema.ReadObject("t", object("v", document.Int(1)))
	assert.Equal(t, "int", descriptorOf(t, schema, "t", "v"))

	schema.ReadObject("t", object("v", document.Null()))
	assert.Equal(t, "int", descriptorOf(t, schema, "t", "v"))
}

func Test_Schema_ReadObject_Is_Idempotent(
	t *testing.T,
) {

	record := object("a", document.Int(1), "b", document.String("x"))

	schema := NewSchema()
	schema.ReadObject("t", record)
	first, err := schema.Serialize()
	require.NoError(t, err)

	schema.ReadObject("t", record)
	second, err := schema.Serialize()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func Test_Schema_ReadObject_Tag_Set_Is_Order_Insensitive(
	t *testing.T,
) {

	records := []*document.Object{
		object("v", document.Int(1)),
		object("v", document.Null()),
		object("v", document.String("x")),
		object("v", document.Bool(true)),
		object("v", document.Int(2)),
	}

	forward := NewSchema()
	for _, record := range records {
		forward.ReadObject("t", record)
	}

	backward := NewSchema()
	for i := len(records) - 1; i >= 0; i-- {
		backward.ReadObject("t", records[i])
	}

	forwardTable, _ := forward.Table("t")
	backwardTable, _ := backward.Table("t")
	forwardColumn, _ := forwardTable.Column("v")
	backwardColumn, _ := backwardTable.Column("v")

	assert.ElementsMatch(t, forwardColumn.Descriptor.Tags(), backwardColumn.Descriptor.Tags())
	assert.Equal(t, "c-int-str-bool", forwardColumn.Descriptor.String())
	assert.Equal(t, "c-int-bool-str", backwardColumn.Descriptor.String())
}

func Test_Schema_ReadObject_Structural_Values_Have_No_Column(
	t *testing.T,
) {

	schema := NewSchema()
	schema.ReadObject("t", object(
		"tags", document.ArrayOf(document.String("a")),
		"address", document.ObjectOf(object("city", document.String("Berlin"))),
		"name", document.String("x"),
	))

	table, _ := schema.Table("t")
	_, present := table.Column("tags")
	assert.False(t, present)
	_, present = table.Column("address")
	assert.False(t, present)
	assert.Equal(t, []string{"address", "name", "tags"}, table.OutputColumns())
}

func Test_Schema_Tables_Per_Table_Independent(
	t *testing.T,
) {

	schema := NewSchema()
	schema.ReadObject("a", object("v", document.Int(1)))
	schema.ReadObject("b", object("v", document.String("x")))

	assert.Equal(t, []string{"a", "b"}, schema.Tables())
	assert.Equal(t, "int", descriptorOf(t, schema, "a", "v"))
	assert.Equal(t, "str", descriptorOf(t, schema, "b", "v"))
}

func Test_Schema_Observer_Feeds_Accumulator(
	t *testing.T,
) {

	schema := NewSchema()
	observer := schema.Observer()

	require.NoError(t, observer.RecordWritten("users", object("v", document.Int(1))))
	require.NoError(t, observer.RecordWritten("users", object("v", document.String("x"))))

	assert.Equal(t, "c-int-str", descriptorOf(t, schema, "users", "v"))
}

func Test_Schema_Custom_Dialect(
	t *testing.T,
) {

	schema := NewSchema(WithSourceDialect(SourceDialectFunc(func(column string) bool {
		return column == "id"
	})))
	schema.ReadObject("t", object("_id", document.Int(1), "id", document.Int(2)))

	table, _ := schema.Table("t")
	mongoId, _ := table.Column("_id")
	id, _ := table.Column("id")
	assert.False(t, mongoId.Primary)
	assert.True(t, id.Primary)
}
