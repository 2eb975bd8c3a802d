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

package kafka

import (
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func kafkaConfig() *config.Config {
	return &config.Config{
		Sink: config.SinkConfig{
			Prefix:         "docs",
			NamingStrategy: config.Dotted,
			Retries: config.RetryConfig{
				MaxAttempts: 2,
				MaxInterval: time.Millisecond,
			},
		},
	}
}

func Test_KafkaSink_Send(
	t *testing.T,
) {

	producerConfig := mocks.NewTestConfig()
	producerConfig.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, producerConfig)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "docs.users", msg.Topic)
		key, _ := msg.Key.Encode()
		assert.Equal(t, "7", string(key))
		value, _ := msg.Value.Encode()
		assert.Equal(t, `{"_id":7,"name":"alice"}`, string(value))
		return nil
	})
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "docs.users_tags", msg.Topic)
		key, _ := msg.Key.Encode()
		assert.Equal(t, "R_1", string(key))
		return nil
	})

	s, err := newKafkaSinkWithProducer(kafkaConfig(), producer)
	require.NoError(t, err)

	manager := sink.NewManager(s)
	require.NoError(t, manager.Route("users", testsupport.Object("_id", 7, "name", "alice")))
	require.NoError(t, manager.Route("users_tags", testsupport.Object("_index_", 0, "_rid_", "R_1", "_val_", "a")))
	require.NoError(t, manager.Close())
	require.NoError(t, s.Stop())
}

func Test_KafkaSink_RetriesTransientFailures(
	t *testing.T,
) {

	producerConfig := mocks.NewTestConfig()
	producerConfig.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, producerConfig)
	producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)
	producer.ExpectSendMessageAndSucceed()

	s, err := newKafkaSinkWithProducer(kafkaConfig(), producer)
	require.NoError(t, err)

	output, err := s.NewOutput("users")
	require.NoError(t, err)
	assert.NoError(t, output.Write(testsupport.Object("_id", 1)))
	require.NoError(t, s.Stop())
}

func Test_KafkaSink_PermanentFailure(
	t *testing.T,
) {

	producerConfig := mocks.NewTestConfig()
	producerConfig.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, producerConfig)
	producer.ExpectSendMessageAndFail(sarama.ErrMessageSizeTooLarge)

	s, err := newKafkaSinkWithProducer(kafkaConfig(), producer)
	require.NoError(t, err)

	output, err := s.NewOutput("users")
	require.NoError(t, err)
	assert.ErrorIs(t, output.Write(testsupport.Object("_id", 1)), sarama.ErrMessageSizeTooLarge)
	require.NoError(t, s.Stop())
}
