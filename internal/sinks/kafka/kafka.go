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
	"crypto/tls"
	"github.com/IBM/sarama"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/sinks/retrying"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/encoding"
	"github.com/noctarius/document-relationalizer/spi/namingstrategy"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/spi/version"
)

func init() {
	sink.RegisterSink(config.Kafka, newKafkaSink)
}

type kafkaSink struct {
	producer      sarama.SyncProducer
	nameGenerator namingstrategy.NameGenerator
	encoder       *encoding.JsonEncoder
	retrier       *retrying.Retrier
}

func newKafkaSink(
	c *config.Config,
) (sink.Sink, error) {

	kafkaConfig := sarama.NewConfig()
	kafkaConfig.ClientID = version.BinName
	kafkaConfig.Producer.Idempotent = config.GetOrDefault(
		c, config.PropertyKafkaIdempotent, false,
	)
	kafkaConfig.Producer.Return.Successes = true
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	kafkaConfig.Producer.Retry.Max = 10
	if kafkaConfig.Producer.Idempotent {
		kafkaConfig.Version = sarama.V0_11_0_0
		kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
		kafkaConfig.Net.MaxOpenRequests = 1
	}

	if config.GetOrDefault(c, config.PropertyKafkaSaslEnabled, false) {
		kafkaConfig.Net.SASL.Enable = true
		kafkaConfig.Net.SASL.User = config.GetOrDefault(
			c, config.PropertyKafkaSaslUser, "",
		)
		kafkaConfig.Net.SASL.Password = config.GetOrDefault(
			c, config.PropertyKafkaSaslPassword, "",
		)
		kafkaConfig.Net.SASL.Mechanism = config.GetOrDefault[sarama.SASLMechanism](
			c, config.PropertyKafkaSaslMechanism, sarama.SASLTypePlaintext,
		)
	}

	if config.GetOrDefault(c, config.PropertyKafkaTlsEnabled, false) {
		kafkaConfig.Net.TLS.Enable = true
		kafkaConfig.Net.TLS.Config = &tls.Config{
			InsecureSkipVerify: config.GetOrDefault(
				c, config.PropertyKafkaTlsSkipVerify, false,
			),
			ClientAuth: config.GetOrDefault(
				c, config.PropertyKafkaTlsClientAuth, tls.NoClientCert,
			),
		}
	}

	producer, err := sarama.NewSyncProducer(
		config.GetOrDefault(c, config.PropertyKafkaBrokers, []string{"localhost:9092"}), kafkaConfig,
	)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return newKafkaSinkWithProducer(c, producer)
}

func newKafkaSinkWithProducer(
	c *config.Config, producer sarama.SyncProducer,
) (*kafkaSink, error) {

	nameGenerator, err := namingstrategy.NewNameGeneratorFromConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger("KafkaSink")
	if err != nil {
		return nil, err
	}

	return &kafkaSink{
		producer:      producer,
		nameGenerator: nameGenerator,
		encoder:       encoding.NewJsonEncoder(),
		retrier:       retrying.NewRetrierWithConfig(c, logger),
	}, nil
}

func (k *kafkaSink) Start() error {
	return nil
}

func (k *kafkaSink) Stop() error {
	return k.producer.Close()
}

func (k *kafkaSink) NewOutput(
	table string,
) (sink.Output, error) {

	topicName := k.nameGenerator.TopicName(table)
	return sink.OutputFunc(func(record *document.Object) error {
		return k.send(topicName, record)
	}), nil
}

func (k *kafkaSink) send(
	topicName string, record *document.Object,
) error {

	data, err := k.encoder.Marshal(record)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topicName,
		Value: sarama.ByteEncoder(data),
	}
	if key := encoding.RecordKey(record); key != nil {
		msg.Key = sarama.ByteEncoder(key)
	}

	return k.retrier.Do(func() error {
		_, _, err := k.producer.SendMessage(msg)
		if err != nil {
			if isPermanent(err) {
				return retrying.Permanent(err)
			}
			return err
		}
		return nil
	})
}

func isPermanent(
	err error,
) bool {

	var kerr sarama.KError
	if errors.As(err, &kerr) {
		switch kerr {
		case sarama.ErrMessageSizeTooLarge,
			sarama.ErrInvalidTopic,
			sarama.ErrTopicAuthorizationFailed,
			sarama.ErrClusterAuthorizationFailed:
			return true
		}
	}
	return false
}
