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

package jsonfile

import (
	"context"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/source"
	"github.com/noctarius/document-relationalizer/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func readAll(
	t *testing.T, content string, extended bool,
) []document.Value {

	path, err := testsupport.WriteTempFile("source-*.json", []byte(content))
	require.NoError(t, err)

	s, err := source.NewSource(config.JsonFile, &config.Config{
		Source: config.SourceConfig{
			JsonFile: config.JsonFileConfig{
				Path:     path,
				Extended: &extended,
			},
		},
	})
	require.NoError(t, err)
	defer s.Close()

	iterator, err := s.Open(context.Background())
	require.NoError(t, err)

	values, err := document.Collect(iterator)
	require.NoError(t, err)
	return values
}

func Test_JsonLines(
	t *testing.T,
) {

	values := readAll(t, "{\"a\": 1, \"b\": 1.5}\n{\"a\": \"x\"}\n", false)
	require.Len(t, values, 2)

	first, ok := values[0].AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, first.Keys())
	a, _ := first.Get("a")
	assert.Equal(t, document.KindInt, a.Kind())
	b, _ := first.Get("b")
	assert.Equal(t, document.KindFloat, b.Kind())
}

func Test_TopLevelArray(
	t *testing.T,
) {

	values := readAll(t, "[{\"a\": 1}, {\"a\": 2}, {\"a\": 3}]", false)
	assert.Len(t, values, 3)
}

func Test_EmptyFile(
	t *testing.T,
) {

	values := readAll(t, "", false)
	assert.Len(t, values, 0)
}

func Test_ExtendedJson(
	t *testing.T,
) {

	values := readAll(
		t,
		`{"_id": {"$oid": "5f1b2c3d4e5f6a7b8c9d0e1f"}, "at": {"$date": "2020-07-24T12:00:00Z"}, "n": {"$numberLong": "42"}}`,
		true,
	)
	require.Len(t, values, 1)

	object, ok := values[0].AsObject()
	require.True(t, ok)

	id, _ := object.Get("_id")
	hex, _ := id.AsString()
	assert.Equal(t, "5f1b2c3d4e5f6a7b8c9d0e1f", hex)

	at, _ := object.Get("at")
	timestamp, ok := at.AsTimestamp()
	require.True(t, ok)
	assert.True(t, timestamp.Equal(time.Date(2020, 7, 24, 12, 0, 0, 0, time.UTC)))

	n, _ := object.Get("n")
	number, _ := n.AsInt()
	assert.Equal(t, int64(42), number)
}

func Test_OpenTwice(
	t *testing.T,
) {

	path, err := testsupport.WriteTempFile("source-*.json", []byte("{}"))
	require.NoError(t, err)

	s, err := newJsonFileSource(&config.Config{
		Source: config.SourceConfig{
			JsonFile: config.JsonFileConfig{Path: path},
		},
	})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Open(context.Background())
	require.NoError(t, err)
	_, err = s.Open(context.Background())
	assert.Error(t, err)
}

func Test_CancelledContext(
	t *testing.T,
) {

	path, err := testsupport.WriteTempFile("source-*.json", []byte("{}\n{}"))
	require.NoError(t, err)

	s, err := newJsonFileSource(&config.Config{
		Source: config.SourceConfig{
			JsonFile: config.JsonFileConfig{Path: path},
		},
	})
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	iterator, err := s.Open(ctx)
	require.NoError(t, err)
	cancel()

	_, _, err = iterator()
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_MissingFile(
	t *testing.T,
) {

	s, err := newJsonFileSource(&config.Config{
		Source: config.SourceConfig{
			JsonFile: config.JsonFileConfig{Path: "/does/not/exist.json"},
		},
	})
	require.NoError(t, err)

	_, err = s.Open(context.Background())
	assert.Error(t, err)
}
