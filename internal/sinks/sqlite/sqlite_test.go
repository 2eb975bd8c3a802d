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

package sqlite

import (
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func Test_SQLiteSink_WriteAndReplay(
	t *testing.T,
) {

	s, err := sink.NewSink(config.SQLite, &config.Config{
		Sink: config.SinkConfig{
			SQLite: config.SQLiteSinkConfig{
				Path:      filepath.Join(t.TempDir(), "staging.db"),
				BatchSize: 2,
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	records := []*document.Object{
		testsupport.Object("_id", 1, "name", "alice", "score", 1.0),
		testsupport.Object("_id", 2, "name", nil),
		testsupport.Object("_id", 3, "tags", "R_1"),
	}

	manager := sink.NewManager(s)
	for _, record := range records {
		require.NoError(t, manager.Route(`we"ird`, record))
	}
	require.NoError(t, manager.Close())

	replayed := make([]*document.Object, 0)
	require.NoError(t, s.(sink.Replayer).Replay(`we"ird`, func(record *document.Object) error {
		replayed = append(replayed, record)
		return nil
	}))

	require.Len(t, replayed, 3)
	for i := range records {
		assert.True(t, records[i].Equal(replayed[i]), "record %d differs", i)
	}
}

func Test_SQLiteSink_NotStarted(
	t *testing.T,
) {

	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "x.db"), 10)
	require.NoError(t, err)

	_, err = s.NewOutput("t")
	assert.ErrorContains(t, err, "isn't started")
	assert.NoError(t, s.Stop())
}

func Test_QuoteIdentifier(
	t *testing.T,
) {

	assert.Equal(t, `"users"`, quoteIdentifier("users"))
	assert.Equal(t, `"a""b"`, quoteIdentifier(`a"b`))
}
