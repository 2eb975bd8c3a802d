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

package s3

import (
	"bytes"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/sinks/retrying"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/encoding"
	"github.com/noctarius/document-relationalizer/spi/sink"
)

const objectExtension = ".jsonl"

func init() {
	sink.RegisterSink(config.S3, newS3Sink)
}

type s3Sink struct {
	bucket    string
	keyPrefix string
	session   *session.Session
	uploader  *s3manager.Uploader
	encoder   *encoding.JsonEncoder
	retrier   *retrying.Retrier
	logger    *logging.Logger
}

func newS3Sink(
	c *config.Config,
) (sink.Sink, error) {

	bucket := config.GetOrDefault(c, config.PropertyS3Bucket, "")
	if bucket == "" {
		return nil, errors.Errorf("S3 sink needs the bucket to be configured")
	}

	awsRegion := config.GetOrDefault[*string](c, config.PropertyS3AwsRegion, nil)
	endpoint := config.GetOrDefault(c, config.PropertyS3AwsEndpoint, "")
	accessKeyId := config.GetOrDefault(c, config.PropertyS3AwsAccessKeyId, "")
	secretAccessKey := config.GetOrDefault(c, config.PropertyS3AwsSecretAccessKey, "")
	sessionToken := config.GetOrDefault(c, config.PropertyS3AwsSessionToken, "")
	forcePathStyle := config.GetOrDefault(c, config.PropertyS3ForcePathStyle, false)

	awsConfig := aws.NewConfig().
		WithEndpoint(endpoint).
		WithS3ForcePathStyle(forcePathStyle)

	if accessKeyId != "" && secretAccessKey != "" {
		awsConfig = awsConfig.WithCredentials(
			credentials.NewStaticCredentials(accessKeyId, secretAccessKey, sessionToken),
		)
	}

	if awsRegion != nil {
		awsConfig = awsConfig.WithRegion(*awsRegion)
	}

	awsSession, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	logger, err := logging.NewLogger("S3Sink")
	if err != nil {
		return nil, err
	}

	return &s3Sink{
		bucket:    bucket,
		keyPrefix: config.GetOrDefault(c, config.PropertyS3KeyPrefix, ""),
		session:   awsSession,
		uploader:  s3manager.NewUploader(awsSession),
		encoder:   encoding.NewJsonLinesEncoder(),
		retrier:   retrying.NewRetrierWithConfig(c, logger),
		logger:    logger,
	}, nil
}

func (s *s3Sink) Start() error {
	return nil
}

func (s *s3Sink) Stop() error {
	return nil
}

func (s *s3Sink) ObjectKey(
	table string,
) string {

	return s.keyPrefix + table + objectExtension
}

func (s *s3Sink) NewOutput(
	table string,
) (sink.Output, error) {

	return &s3Output{
		sink:   s,
		key:    s.ObjectKey(table),
		buffer: &bytes.Buffer{},
	}, nil
}

// s3Output collects the records of a table and uploads them as
// a single object when closed.
type s3Output struct {
	sink   *s3Sink
	key    string
	buffer *bytes.Buffer
}

func (o *s3Output) Write(
	record *document.Object,
) error {

	data, err := o.sink.encoder.Marshal(record)
	if err != nil {
		return err
	}
	o.buffer.Write(data)
	return nil
}

func (o *s3Output) Close() error {
	content := o.buffer.Bytes()
	o.sink.logger.Verbosef("Uploading s3://%s/%s (%d bytes)", o.sink.bucket, o.key, len(content))

	return o.sink.retrier.Do(func() error {
		_, err := o.sink.uploader.Upload(&s3manager.UploadInput{
			Bucket:      aws.String(o.sink.bucket),
			Key:         aws.String(o.key),
			ContentType: aws.String("application/x-ndjson"),
			Body:        bytes.NewReader(content),
		})
		if err != nil {
			return errors.Wrap(err, 0)
		}
		return nil
	})
}
