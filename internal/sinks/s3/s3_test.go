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
	"context"
	"github.com/aws/aws-sdk-go/aws"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/noctarius/document-relationalizer/internal/supporting"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/testsupport"
	"github.com/noctarius/document-relationalizer/testsupport/containers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

func s3Config(
	endpoint string,
) *config.Config {

	return &config.Config{
		Sink: config.SinkConfig{
			Type: config.S3,
			S3: config.S3Config{
				Bucket:         "documents",
				KeyPrefix:      "export/",
				ForcePathStyle: true,
				Aws: config.AwsConnectionConfig{
					Region:          supporting.AddrOf("us-east-1"),
					Endpoint:        endpoint,
					AccessKeyId:     "test",
					SecretAccessKey: "test",
					SessionToken:    "session",
				},
			},
			Retries: config.RetryConfig{
				MaxAttempts: 2,
				MaxInterval: 10 * time.Millisecond,
			},
		},
	}
}

func Test_S3Sink_Configuration(
	t *testing.T,
) {

	s, err := newS3Sink(s3Config("http://localhost:4566"))
	require.NoError(t, err)

	s3Sink := s.(*s3Sink)
	assert.Equal(t, "documents", s3Sink.bucket)
	assert.Equal(t, "export/users_tags.jsonl", s3Sink.ObjectKey("users_tags"))

	awsConfig := s3Sink.session.Config
	assert.Equal(t, "us-east-1", *awsConfig.Region)
	assert.Equal(t, "http://localhost:4566", *awsConfig.Endpoint)
	assert.True(t, *awsConfig.S3ForcePathStyle)

	credentials, err := awsConfig.Credentials.Get()
	require.NoError(t, err)
	assert.Equal(t, "test", credentials.AccessKeyID)
	assert.Equal(t, "test", credentials.SecretAccessKey)
	assert.Equal(t, "session", credentials.SessionToken)
}

func Test_S3Sink_MissingBucket(
	t *testing.T,
) {

	_, err := newS3Sink(&config.Config{})
	assert.ErrorContains(t, err, "bucket")
}

func Test_S3Sink_Upload(
	t *testing.T,
) {

	if testing.Short() {
		t.Skip("skipping localstack integration test in short mode")
	}

	container, endpoint, err := containers.SetupLocalStackWithS3()
	require.NoError(t, err)
	defer container.Terminate(context.Background())

	c := s3Config(endpoint)
	s, err := sink.NewSink(config.S3, c)
	require.NoError(t, err)

	client := awss3.New(s.(*s3Sink).session)
	_, err = client.CreateBucket(&awss3.CreateBucketInput{Bucket: aws.String("documents")})
	require.NoError(t, err)

	manager := sink.NewManager(s)
	require.NoError(t, manager.Route("users", testsupport.Object("_id", 1, "name", "alice")))
	require.NoError(t, manager.Route("users", testsupport.Object("_id", 2, "name", "bob")))
	require.NoError(t, manager.Close())

	object, err := client.GetObject(&awss3.GetObjectInput{
		Bucket: aws.String("documents"),
		Key:    aws.String("export/users.jsonl"),
	})
	require.NoError(t, err)
	defer object.Body.Close()

	content, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	assert.Equal(t, "{\"_id\":1,\"name\":\"alice\"}\n{\"_id\":2,\"name\":\"bob\"}\n", string(content))
}
