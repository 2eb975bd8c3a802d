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
	"crypto/tls"
	"github.com/go-errors/errors"
	"github.com/go-redis/redis"
	"github.com/noctarius/document-relationalizer/internal/sinks/retrying"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/encoding"
	"github.com/noctarius/document-relationalizer/spi/namingstrategy"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"time"
)

const (
	fieldKey    = "key"
	fieldRecord = "record"
)

func init() {
	sink.RegisterSink(config.Redis, newRedisSink)
}

type redisSink struct {
	client        *redis.Client
	nameGenerator namingstrategy.NameGenerator
	encoder       *encoding.JsonEncoder
	decoder       *encoding.JsonDecoder
	retrier       *retrying.Retrier
}

func newRedisSink(
	c *config.Config,
) (sink.Sink, error) {

	options := &redis.Options{
		Network: config.GetOrDefault(
			c, config.PropertyRedisNetwork, "tcp",
		),
		Addr: config.GetOrDefault(
			c, config.PropertyRedisAddress, "localhost:6379",
		),
		Password: config.GetOrDefault(
			c, config.PropertyRedisPassword, "",
		),
		DB: config.GetOrDefault(
			c, config.PropertyRedisDatabase, 0,
		),
		DialTimeout: time.Duration(config.GetOrDefault(
			c, config.PropertyRedisTimeoutDial, 0,
		)) * time.Second,
		ReadTimeout: time.Duration(config.GetOrDefault(
			c, config.PropertyRedisTimeoutRead, 0,
		)) * time.Second,
		WriteTimeout: time.Duration(config.GetOrDefault(
			c, config.PropertyRedisTimeoutWrite, 0,
		)) * time.Second,
		PoolSize: config.GetOrDefault(
			c, config.PropertyRedisPoolsize, 0,
		),
	}

	if config.GetOrDefault(c, config.PropertyRedisTlsEnabled, false) {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: config.GetOrDefault(
				c, config.PropertyRedisTlsSkipVerify, false,
			),
			ClientAuth: config.GetOrDefault(
				c, config.PropertyRedisTlsClientAuth, tls.NoClientCert,
			),
		}
	}

	nameGenerator, err := namingstrategy.NewNameGeneratorFromConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger("RedisSink")
	if err != nil {
		return nil, err
	}

	return &redisSink{
		client:        redis.NewClient(options),
		nameGenerator: nameGenerator,
		encoder:       encoding.NewJsonEncoder(),
		decoder:       encoding.NewJsonDecoder(),
		retrier:       retrying.NewRetrierWithConfig(c, logger),
	}, nil
}

func (r *redisSink) Start() error {
	if err := r.client.Ping().Err(); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func (r *redisSink) Stop() error {
	return r.client.Close()
}

func (r *redisSink) NewOutput(
	table string,
) (sink.Output, error) {

	stream := r.nameGenerator.TopicName(table)
	return sink.OutputFunc(func(record *document.Object) error {
		data, err := r.encoder.Marshal(record)
		if err != nil {
			return err
		}

		values := map[string]any{
			fieldRecord: string(data),
		}
		if key := encoding.RecordKey(record); key != nil {
			values[fieldKey] = string(key)
		}

		return r.retrier.Do(func() error {
			return r.client.XAdd(&redis.XAddArgs{
				Stream: stream,
				Values: values,
			}).Err()
		})
	}), nil
}

// Replay reads the stream of the table from its beginning.
func (r *redisSink) Replay(
	table string, fn func(record *document.Object) error,
) error {

	stream := r.nameGenerator.TopicName(table)
	messages, err := r.client.XRange(stream, "-", "+").Result()
	if err != nil {
		return errors.Wrap(err, 0)
	}

	for _, message := range messages {
		data, ok := message.Values[fieldRecord].(string)
		if !ok {
			return errors.Errorf("message %s in stream %s has no record", message.ID, stream)
		}
		record, err := r.decoder.Unmarshal([]byte(data))
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}
