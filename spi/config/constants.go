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

package config

const (
	PropertyRelationalizeRoot          = "relationalize.root"
	PropertyRelationalizeIgnoreArrays  = "relationalize.ignorearrays"
	PropertyRelationalizeIgnoreObjects = "relationalize.ignoreobjects"
	PropertyRelationalizeEmptyArrays   = "relationalize.emptyarrays"

	PropertySource = "source.type"

	PropertyJsonFilePath     = "source.jsonfile.path"
	PropertyJsonFileExtended = "source.jsonfile.extended"
	PropertyBsonFilePath     = "source.bsonfile.path"

	PropertyMongoUri        = "source.mongodb.uri"
	PropertyMongoDatabase   = "source.mongodb.database"
	PropertyMongoCollection = "source.mongodb.collection"
	PropertyMongoFilter     = "source.mongodb.filter"
	PropertyMongoBatchSize  = "source.mongodb.batchsize"

	PropertySink               = "sink.type"
	PropertySinkPrefix         = "sink.prefix"
	PropertySinkNamingStrategy = "sink.namingstrategy"

	PropertySinkRetriesMaxAttempts = "sink.retries.maxattempts"
	PropertySinkRetriesMaxInterval = "sink.retries.maxinterval"

	PropertyStagingType = "staging.type"
	PropertyStagingPath = "staging.path"

	PropertySchemaOutput                 = "schema.output"
	PropertySchemaDropNullColumns        = "schema.dropnullcolumns"
	PropertySchemaDropSpecialCharColumns = "schema.dropspecialcharcolumns"
	PropertySchemaDropDuplicateColumns   = "schema.dropduplicatecolumns"
	PropertySchemaAllowedChars           = "schema.allowedchars"

	PropertyLoggingLevel = "logging.level"

	PropertyStatsEnabled        = "stats.enabled"
	PropertyStatsAddress        = "stats.address"
	PropertyRuntimeStatsEnabled = "stats.runtime.enabled"

	PropertyFileSinkPath = "sink.file.path"

	PropertyS3Bucket             = "sink.s3.bucket"
	PropertyS3KeyPrefix          = "sink.s3.keyprefix"
	PropertyS3ForcePathStyle     = "sink.s3.forcepathstyle"
	PropertyS3AwsRegion          = "sink.s3.aws.region"
	PropertyS3AwsEndpoint        = "sink.s3.aws.endpoint"
	PropertyS3AwsAccessKeyId     = "sink.s3.aws.accesskeyid"
	PropertyS3AwsSecretAccessKey = "sink.s3.aws.secretaccesskey"
	PropertyS3AwsSessionToken    = "sink.s3.aws.sessiontoken"

	PropertyKafkaBrokers       = "sink.kafka.brokers"
	PropertyKafkaIdempotent    = "sink.kafka.idempotent"
	PropertyKafkaSaslEnabled   = "sink.kafka.sasl.enabled"
	PropertyKafkaSaslUser      = "sink.kafka.sasl.user"
	PropertyKafkaSaslPassword  = "sink.kafka.sasl.password"
	PropertyKafkaSaslMechanism = "sink.kafka.sasl.mechanism"
	PropertyKafkaTlsEnabled    = "sink.kafka.tls.enabled"
	PropertyKafkaTlsSkipVerify = "sink.kafka.tls.skipverify"
	PropertyKafkaTlsClientAuth = "sink.kafka.tls.clientauth"

	PropertyRedisNetwork       = "sink.redis.network"
	PropertyRedisAddress       = "sink.redis.address"
	PropertyRedisPassword      = "sink.redis.password"
	PropertyRedisDatabase      = "sink.redis.database"
	PropertyRedisPoolsize      = "sink.redis.poolsize"
	PropertyRedisTimeoutDial   = "sink.redis.timeouts.dial"
	PropertyRedisTimeoutRead   = "sink.redis.timeouts.read"
	PropertyRedisTimeoutWrite  = "sink.redis.timeouts.write"
	PropertyRedisTlsEnabled    = "sink.redis.tls.enabled"
	PropertyRedisTlsSkipVerify = "sink.redis.tls.skipverify"
	PropertyRedisTlsClientAuth = "sink.redis.tls.clientauth"

	PropertyNatsAddress                = "sink.nats.address"
	PropertyNatsAuthorization          = "sink.nats.authorization"
	PropertyNatsUserinfoUsername       = "sink.nats.userinfo.username"
	PropertyNatsUserinfoPassword       = "sink.nats.userinfo.password"
	PropertyNatsCredentialsCertificate = "sink.nats.credentials.certificate"
	PropertyNatsCredentialsSeeds       = "sink.nats.credentials.seeds"
	PropertyNatsJwt                    = "sink.nats.jwt.jwt"
	PropertyNatsJwtSeed                = "sink.nats.jwt.seed"

	PropertyPostgresConnection = "sink.postgres.connection"
	PropertyPostgresPassword   = "sink.postgres.password"
	PropertyPostgresSchema     = "sink.postgres.schema"
	PropertyPostgresBatchSize  = "sink.postgres.batchsize"

	PropertySQLitePath      = "sink.sqlite.path"
	PropertySQLiteBatchSize = "sink.sqlite.batchsize"
)
