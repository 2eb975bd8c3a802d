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

package nats

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/nats-io/nats.go"
	"github.com/noctarius/document-relationalizer/internal/sinks/retrying"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/encoding"
	"github.com/noctarius/document-relationalizer/spi/namingstrategy"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/spi/version"
	"time"
)

const headerKey = "key"

func init() {
	sink.RegisterSink(config.NATS, newNatsSink)
}

// publisher is the subset of nats.JetStreamContext used by the sink
type publisher interface {
	PublishMsg(
		m *nats.Msg, opts ...nats.PubOpt,
	) (*nats.PubAck, error)
}

type natsSink struct {
	client        *nats.Conn
	publisher     publisher
	nameGenerator namingstrategy.NameGenerator
	encoder       *encoding.JsonEncoder
	retrier       *retrying.Retrier
}

func newNatsSink(
	c *config.Config,
) (sink.Sink, error) {

	address := config.GetOrDefault(c, config.PropertyNatsAddress, "nats://localhost:4222")
	authorization := config.GetOrDefault(c, config.PropertyNatsAuthorization, config.UserInfo)

	var option nats.Option
	switch authorization {
	case config.UserInfo:
		username := config.GetOrDefault(c, config.PropertyNatsUserinfoUsername, "")
		password := config.GetOrDefault(c, config.PropertyNatsUserinfoPassword, "")
		option = nats.UserInfo(username, password)
	case config.Credentials:
		certificate := config.GetOrDefault(c, config.PropertyNatsCredentialsCertificate, "")
		seeds := config.GetOrDefault(c, config.PropertyNatsCredentialsSeeds, []string{})
		option = nats.UserCredentials(certificate, seeds...)
	case config.Jwt:
		jwt := config.GetOrDefault(c, config.PropertyNatsJwt, "")
		seed := config.GetOrDefault(c, config.PropertyNatsJwtSeed, "")
		option = nats.UserJWTAndSeed(jwt, seed)
	default:
		return nil, errors.Errorf("NATS AuthorizationType '%s' doesn't exist", authorization)
	}

	client, err := nats.Connect(
		address,
		option,
		nats.Name(version.BinName),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(time.Second*10),
		nats.ReconnectBufSize(1024*1024),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	jetStreamContext, err := client.JetStream()
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, 0)
	}

	s, err := newNatsSinkWithPublisher(c, jetStreamContext)
	if err != nil {
		client.Close()
		return nil, err
	}
	s.client = client
	return s, nil
}

func newNatsSinkWithPublisher(
	c *config.Config, publisher publisher,
) (*natsSink, error) {

	nameGenerator, err := namingstrategy.NewNameGeneratorFromConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger("NatsSink")
	if err != nil {
		return nil, err
	}

	return &natsSink{
		publisher:     publisher,
		nameGenerator: nameGenerator,
		encoder:       encoding.NewJsonEncoder(),
		retrier:       retrying.NewRetrierWithConfig(c, logger),
	}, nil
}

func (n *natsSink) Start() error {
	return nil
}

func (n *natsSink) Stop() error {
	if n.client != nil {
		n.client.Close()
	}
	return nil
}

func (n *natsSink) NewOutput(
	table string,
) (sink.Output, error) {

	subject := n.nameGenerator.TopicName(table)
	return sink.OutputFunc(func(record *document.Object) error {
		data, err := n.encoder.Marshal(record)
		if err != nil {
			return err
		}

		header := nats.Header{}
		if key := encoding.RecordKey(record); key != nil {
			header.Add(headerKey, string(key))
		}

		return n.retrier.Do(func() error {
			_, err := n.publisher.PublishMsg(
				&nats.Msg{
					Subject: subject,
					Header:  header,
					Data:    data,
				},
				nats.Context(context.Background()),
			)
			return err
		})
	}), nil
}
