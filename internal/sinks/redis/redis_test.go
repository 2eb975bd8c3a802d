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

package redis

import (
	"context"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/testsupport"
	"github.com/noctarius/document-relationalizer/testsupport/containers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func Test_RedisSink_Configuration(
	t *testing.T,
) {

	s, err := newRedisSink(&config.Config{
		Sink: config.SinkConfig{
			Prefix: "docs:",
			Redis: config.RedisConfig{
				Address:  "redis.example:6380",
				Database: 3,
				Timeouts: config.RedisTimeoutConfig{Dial: 5},
			},
		},
	})
	require.NoError(t, err)

	redisSink := s.(*redisSink)
	options := redisSink.client.Options()
	assert.Equal(t, "redis.example:6380", options.Addr)
	assert.Equal(t, 3, options.DB)
	assert.Equal(t, 5*time.Second, options.DialTimeout)
	assert.Equal(t, "docs_users", redisSink.nameGenerator.TopicName("users"))
	assert.NoError(t, s.Stop())
}

func Test_RedisSink_WriteAndReplay(
	t *testing.T,
) {

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	container, address, err := containers.SetupRedisContainer()
	require.NoError(t, err)
	defer container.Terminate(context.Background())

	s, err := sink.NewSink(config.Redis, &config.Config{
		Sink: config.SinkConfig{
			Prefix: "docs.",
			Redis:  config.RedisConfig{Address: address},
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	records := []*document.Object{
		testsupport.Object("_id", 1, "name", "alice"),
		testsupport.Object("_id", 2, "name", nil),
	}

	manager := sink.NewManager(s)
	for _, record := range records {
		require.NoError(t, manager.Route("users", record))
	}
	require.NoError(t, manager.Close())

	replayed := make([]*document.Object, 0)
	require.NoError(t, s.(sink.Replayer).Replay("users", func(record *document.Object) error {
		replayed = append(replayed, record)
		return nil
	}))

	require.Len(t, replayed, 2)
	for i := range records {
		assert.True(t, records[i].Equal(replayed[i]))
	}
}
