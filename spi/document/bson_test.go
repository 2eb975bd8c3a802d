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

package document

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"testing"
	"time"
)

func Test_FromBSON_Document(
	t *testing.T,
) {

	id := bson.NewObjectID()
	created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	document := bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Alice"},
		{Key: "age", Value: int32(42)},
		{Key: "score", Value: 9.5},
		{Key: "created", Value: bson.NewDateTimeFromTime(created)},
		{Key: "tags", Value: bson.A{"a", int64(2)}},
		{Key: "address", Value: bson.D{{Key: "city", Value: "Berlin"}}},
		{Key: "missing", Value: nil},
	}

	value, err := FromBSON(document)
	require.NoError(t, err)

	object, ok := value.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"_id", "name", "age", "score", "created", "tags", "address", "missing"}, object.Keys())

	v, _ := object.Get("_id")
	assert.Equal(t, String(id.Hex()), v)

	v, _ = object.Get("age")
	assert.Equal(t, Int(42), v)

	v, _ = object.Get("created")
	assert.True(t, v.Equal(Timestamp(created)))

	v, _ = object.Get("tags")
	assert.True(t, v.Equal(ArrayOf(String("a"), Int(2))))

	v, _ = object.Get("missing")
	assert.True(t, v.IsNull())
}

func Test_FromRaw_Matches_FromBSON(
	t *testing.T,
) {

	document := bson.D{
		{Key: "b", Value: int64(1)},
		{Key: "a", Value: bson.D{{Key: "x", Value: true}}},
		{Key: "list", Value: bson.A{1.5, "s", bson.D{{Key: "k", Value: "v"}}}},
	}

	raw, err := bson.Marshal(document)
	require.NoError(t, err)

	fromRaw, err := FromRaw(raw)
	require.NoError(t, err)

	fromDocument, err := FromBSON(document)
	require.NoError(t, err)

	assert.True(t, fromDocument.Equal(fromRaw))
}

func Test_FromBSONValue_Binary_UUID(
	t *testing.T,
) {

	data := []byte{
		0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0,
		0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0,
	}

	value, err := FromBSONValue(bson.Binary{Subtype: 0x04, Data: data})
	require.NoError(t, err)
	assert.Equal(t, String("12345678-9abc-def0-1234-56789abcdef0"), value)

	value, err = FromBSONValue(bson.Binary{Subtype: 0x00, Data: []byte("hi")})
	require.NoError(t, err)
	assert.Equal(t, String("aGk="), value)
}

func Test_FromBSONValue_Map_Is_Sorted(
	t *testing.T,
) {

	value, err := FromBSONValue(bson.M{"b": 1, "a": 2})
	require.NoError(t, err)

	object, _ := value.AsObject()
	assert.Equal(t, []string{"a", "b"}, object.Keys())
}

func Test_FromBSONValue_Unsupported(
	t *testing.T,
) {

	_, err := FromBSONValue(struct{}{})
	assert.Error(t, err)
}

func Test_ParseExtendedJSON(
	t *testing.T,
) {

	value, err := ParseExtendedJSON([]byte(
		`{"_id": {"$oid": "5f1b2c3d4e5f6a7b8c9d0e1f"}, "n": {"$numberLong": "7"}, "when": {"$date": "2020-01-02T03:04:05Z"}}`,
	))
	require.NoError(t, err)

	object, _ := value.AsObject()
	assert.Equal(t, []string{"_id", "n", "when"}, object.Keys())

	v, _ := object.Get("_id")
	assert.Equal(t, String("5f1b2c3d4e5f6a7b8c9d0e1f"), v)

	v, _ = object.Get("n")
	assert.Equal(t, Int(7), v)

	v, _ = object.Get("when")
	assert.True(t, v.Equal(Timestamp(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))))
}
