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
	"os"
	"path/filepath"
	"testing"
)

func Test_Serialize(
	t *testing.T,
) {

	schema := NewSchema()
	schema.ReadObject("users", object(
		"_id", document.String("a"),
		"age", document.Int(1),
		"nick", document.Null(),
	))
	schema.ReadObject("users", object("age", document.String("old")))
	schema.ReadObject("users_tags", object("_index_", document.Int(0)))

	data, err := schema.Serialize()
	require.NoError(t, err)

	expected := `{"users":{"_id":{"type":"str","is_primary":true},"age":{"type":"c-int-str","is_primary":false},` +
		`"nick":{"type":"none","is_primary":false}},"users_tags":{"_index_":{"type":"int","is_primary":false}}}`
	assert.Equal(t, expected, string(data))
}

func Test_Deserialize_Round_Trip(
	t *testing.T,
) {

	schema := NewSchema()
	schema.ReadObject("b", object("z", document.Int(1), "a", document.Bool(true)))
	schema.ReadObject("a", object("_id", document.String("x")))
	schema.ReadObject("b", object("z", document.Float(1.5)))

	data, err := schema.Serialize()
	require.NoError(t, err)

	decoded, err := Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, decoded.Tables())
	assert.Equal(t, []string{"z", "a"}, columnNames(decoded, "b"))
	assert.Equal(t, "c-int-float", descriptorOf(t, decoded, "b", "z"))

	again, err := decoded.Serialize()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func Test_Deserialize_Errors(
	t *testing.T,
) {

	_, err := Deserialize([]byte(`[]`))
	assert.Error(t, err)

	_, err = Deserialize([]byte(`{"t": 1}`))
	assert.Error(t, err)

	_, err = Deserialize([]byte(`{"t": {"c": {"is_primary": false}}}`))
	assert.Error(t, err)

	_, err = Deserialize([]byte(`{"t": {"c": {"type": "c-int-uuid"}}}`))
	assert.Error(t, err)
}

func Test_Deserialize_Then_Convert(
	t *testing.T,
) {

	decoded, err := Deserialize([]byte(`{"t": {"v": {"type": "c-int-str", "is_primary": false}}}`))
	require.NoError(t, err)

	converted := decoded.ConvertObject("t", object("v", document.String("x")))
	assert.Equal(t, []string{"v_str"}, converted.Keys())
}

func Test_SaveFile_LoadFile(
	t *testing.T,
) {

	path := filepath.Join(t.TempDir(), "schema.json")

	schema := NewSchema()
	schema.ReadObject("t", object("v", document.Int(1)))
	require.NoError(t, schema.SaveFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "int", descriptorOf(t, loaded, "t", "v"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
