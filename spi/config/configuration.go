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

import (
	"crypto/tls"
	"os"
	"reflect"
	"strings"
	"time"
)

type SourceType string

const (
	JsonFile SourceType = "jsonfile"
	BsonFile SourceType = "bsonfile"
	MongoDB  SourceType = "mongodb"
)

type SinkType string

const (
	File     SinkType = "file"
	Stdout   SinkType = "stdout"
	Memory   SinkType = "memory"
	S3       SinkType = "s3"
	Kafka    SinkType = "kafka"
	Redis    SinkType = "redis"
	NATS     SinkType = "nats"
	Postgres SinkType = "postgres"
	SQLite   SinkType = "sqlite"
)

type EmptyArrayMode string

const (
	// MintEmptyArrays replaces an empty array with a relation id
	// that has no child records
	MintEmptyArrays EmptyArrayMode = "mint"
	// NullEmptyArrays replaces an empty array with null
	NullEmptyArrays EmptyArrayMode = "null"
)

type NamingStrategyType string

const (
	Prefixed NamingStrategyType = "prefixed"
	Dotted   NamingStrategyType = "dotted"
)

type NatsAuthorizationType string

const (
	UserInfo    NatsAuthorizationType = "userinfo"
	Credentials NatsAuthorizationType = "credentials"
	Jwt         NatsAuthorizationType = "jwt"
)

type Config struct {
	Relationalize RelationalizeConfig             `toml:"relationalize" yaml:"relationalize"`
	Source        SourceConfig                    `toml:"source" yaml:"source"`
	Sink          SinkConfig                      `toml:"sink" yaml:"sink"`
	Staging       StagingConfig                   `toml:"staging" yaml:"staging"`
	Schema        SchemaConfig                    `toml:"schema" yaml:"schema"`
	Filters       map[string]DocumentFilterConfig `toml:"filters" yaml:"filters"`
	Stats         StatsConfig                     `toml:"stats" yaml:"stats"`
	Logging       LoggerConfig                    `toml:"logging" yaml:"logging"`
}

type RelationalizeConfig struct {
	Root          string         `toml:"root" yaml:"root"`
	IgnoreArrays  *bool          `toml:"ignorearrays" yaml:"ignorearrays"`
	IgnoreObjects *bool          `toml:"ignoreobjects" yaml:"ignoreobjects"`
	EmptyArrays   EmptyArrayMode `toml:"emptyarrays" yaml:"emptyarrays"`
}

type SourceConfig struct {
	Type     SourceType        `toml:"type" yaml:"type"`
	JsonFile JsonFileConfig    `toml:"jsonfile" yaml:"jsonfile"`
	BsonFile BsonFileConfig    `toml:"bsonfile" yaml:"bsonfile"`
	MongoDB  MongoSourceConfig `toml:"mongodb" yaml:"mongodb"`
}

type JsonFileConfig struct {
	Path     string `toml:"path" yaml:"path"`
	Extended *bool  `toml:"extended" yaml:"extended"`
}

type BsonFileConfig struct {
	Path string `toml:"path" yaml:"path"`
}

type MongoSourceConfig struct {
	Uri        string `toml:"uri" yaml:"uri"`
	Database   string `toml:"database" yaml:"database"`
	Collection string `toml:"collection" yaml:"collection"`
	Filter     string `toml:"filter" yaml:"filter"`
	BatchSize  int32  `toml:"batchsize" yaml:"batchsize"`
}

type SinkConfig struct {
	Type           SinkType           `toml:"type" yaml:"type"`
	Prefix         string             `toml:"prefix" yaml:"prefix"`
	NamingStrategy NamingStrategyType `toml:"namingstrategy" yaml:"namingstrategy"`
	File           FileSinkConfig     `toml:"file" yaml:"file"`
	S3             S3Config           `toml:"s3" yaml:"s3"`
	Kafka          KafkaConfig        `toml:"kafka" yaml:"kafka"`
	Redis          RedisConfig        `toml:"redis" yaml:"redis"`
	Nats           NatsConfig         `toml:"nats" yaml:"nats"`
	Postgres       PostgresSinkConfig `toml:"postgres" yaml:"postgres"`
	SQLite         SQLiteSinkConfig   `toml:"sqlite" yaml:"sqlite"`
	Retries        RetryConfig        `toml:"retries" yaml:"retries"`
}

type StagingConfig struct {
	Type SinkType `toml:"type" yaml:"type"`
	Path string   `toml:"path" yaml:"path"`
}

type SchemaConfig struct {
	Output                 string `toml:"output" yaml:"output"`
	DropNullColumns        bool   `toml:"dropnullcolumns" yaml:"dropnullcolumns"`
	DropSpecialCharColumns bool   `toml:"dropspecialcharcolumns" yaml:"dropspecialcharcolumns"`
	DropDuplicateColumns   bool   `toml:"dropduplicatecolumns" yaml:"dropduplicatecolumns"`
	AllowedChars           string `toml:"allowedchars" yaml:"allowedchars"`
}

type DocumentFilterConfig struct {
	DefaultValue *bool  `toml:"default" yaml:"default"`
	Condition    string `toml:"condition" yaml:"condition"`
}

type StatsConfig struct {
	Enabled *bool        `toml:"enabled" yaml:"enabled"`
	Address string       `toml:"address" yaml:"address"`
	Runtime RuntimeStats `toml:"runtime" yaml:"runtime"`
}

type RuntimeStats struct {
	Enabled *bool `toml:"enabled" yaml:"enabled"`
}

type FileSinkConfig struct {
	Path string `toml:"path" yaml:"path"`
}

type AwsConnectionConfig struct {
	Region          *string `toml:"region" yaml:"region"`
	Endpoint        string  `toml:"endpoint" yaml:"endpoint"`
	AccessKeyId     string  `toml:"accesskeyid" yaml:"accesskeyid"`
	SecretAccessKey string  `toml:"secretaccesskey" yaml:"secretaccesskey"`
	SessionToken    string  `toml:"sessiontoken" yaml:"sessiontoken"`
}

type S3Config struct {
	Bucket         string              `toml:"bucket" yaml:"bucket"`
	KeyPrefix      string              `toml:"keyprefix" yaml:"keyprefix"`
	ForcePathStyle bool                `toml:"forcepathstyle" yaml:"forcepathstyle"`
	Aws            AwsConnectionConfig `toml:"aws" yaml:"aws"`
}

type KafkaSaslConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	User      string `toml:"user" yaml:"user"`
	Password  string `toml:"password" yaml:"password"`
	Mechanism string `toml:"mechanism" yaml:"mechanism"`
}

type KafkaConfig struct {
	Brokers    []string        `toml:"brokers" yaml:"brokers"`
	Idempotent bool            `toml:"idempotent" yaml:"idempotent"`
	Sasl       KafkaSaslConfig `toml:"sasl" yaml:"sasl"`
	TLS        TLSConfig       `toml:"tls" yaml:"tls"`
}

type RedisConfig struct {
	Network  string             `toml:"network" yaml:"network"`
	Address  string             `toml:"address" yaml:"address"`
	Password string             `toml:"password" yaml:"password"`
	Database int                `toml:"database" yaml:"database"`
	PoolSize int                `toml:"poolsize" yaml:"poolsize"`
	Timeouts RedisTimeoutConfig `toml:"timeouts" yaml:"timeouts"`
	TLS      TLSConfig          `toml:"tls" yaml:"tls"`
}

type RedisTimeoutConfig struct {
	Dial  int `toml:"dial" yaml:"dial"`
	Read  int `toml:"read" yaml:"read"`
	Write int `toml:"write" yaml:"write"`
}

type NatsUserInfoConfig struct {
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
}

type NatsCredentialsConfig struct {
	Certificate string   `toml:"certificate" yaml:"certificate"`
	Seeds       []string `toml:"seeds" yaml:"seeds"`
}

type NatsJWTConfig struct {
	JWT  string `toml:"jwt" yaml:"jwt"`
	Seed string `toml:"seed" yaml:"seed"`
}

type NatsConfig struct {
	Address       string                `toml:"address" yaml:"address"`
	Authorization NatsAuthorizationType `toml:"authorization" yaml:"authorization"`
	UserInfo      NatsUserInfoConfig    `toml:"userinfo" yaml:"userinfo"`
	Credentials   NatsCredentialsConfig `toml:"credentials" yaml:"credentials"`
	JWT           NatsJWTConfig         `toml:"jwt" yaml:"jwt"`
}

type PostgresSinkConfig struct {
	Connection string `toml:"connection" yaml:"connection"`
	Password   string `toml:"password" yaml:"password"`
	Schema     string `toml:"schema" yaml:"schema"`
	BatchSize  int    `toml:"batchsize" yaml:"batchsize"`
}

type SQLiteSinkConfig struct {
	Path      string `toml:"path" yaml:"path"`
	BatchSize int    `toml:"batchsize" yaml:"batchsize"`
}

type RetryConfig struct {
	MaxAttempts uint64        `toml:"maxattempts" yaml:"maxattempts"`
	MaxInterval time.Duration `toml:"maxinterval" yaml:"maxinterval"`
}

type TLSConfig struct {
	Enabled    bool               `toml:"enabled" yaml:"enabled"`
	SkipVerify bool               `toml:"skipverify" yaml:"skipverify"`
	ClientAuth tls.ClientAuthType `toml:"clientauth" yaml:"clientauth"`
}

type LoggerConfig struct {
	Level   string                     `toml:"level" yaml:"level"`
	Outputs LoggerOutputConfig         `toml:"output" yaml:"output"`
	Loggers map[string]SubLoggerConfig `toml:"loggers" yaml:"loggers"`
}

type LoggerOutputConfig struct {
	Console LoggerConsoleConfig `toml:"console" yaml:"console"`
	File    LoggerFileConfig    `toml:"file" yaml:"file"`
}

type SubLoggerConfig struct {
	Level   *string            `toml:"level" yaml:"level"`
	Outputs LoggerOutputConfig `toml:"output" yaml:"output"`
}

type LoggerConsoleConfig struct {
	Enabled *bool `toml:"enabled" yaml:"enabled"`
}

type LoggerFileConfig struct {
	Enabled     *bool          `toml:"enabled" yaml:"enabled"`
	Path        string         `toml:"path" yaml:"path"`
	Rotate      *bool          `toml:"rotate" yaml:"rotate"`
	MaxSize     *string        `toml:"maxsize" yaml:"maxsize"`
	MaxDuration *time.Duration `toml:"maxduration" yaml:"maxduration"`
	Compress    bool           `toml:"compress" yaml:"compress"`
}

// GetOrDefault resolves a canonical, dot-separated property (e.g.
// sink.kafka.brokers) against environment variables first and the
// given configuration second. If neither has a non-zero value, the
// defaultValue is returned.
func GetOrDefault[V any](
	config *Config, canonicalProperty string, defaultValue V,
) V {

	if env, found := findEnvProperty(canonicalProperty, defaultValue); found {
		return env
	}

	properties := strings.Split(canonicalProperty, ".")

	element := reflect.ValueOf(*config)
	for _, property := range properties {
		if e, ok := findProperty(element, property); ok {
			element = e
		} else {
			return defaultValue
		}
	}

	if !element.IsZero() &&
		!(element.Kind() == reflect.Ptr && element.IsNil()) {

		if element.Kind() == reflect.Ptr {
			element = element.Elem()
		}

		t := reflect.TypeOf(defaultValue)
		if t != nil && t.Kind() == reflect.Ptr && element.CanAddr() {
			return element.Addr().Convert(t).Interface().(V)
		}
		return element.Convert(t).Interface().(V)
	}
	return defaultValue
}

func findEnvProperty[V any](
	canonicalProperty string, defaultValue V,
) (V, bool) {

	t := reflect.TypeOf(defaultValue)
	if t == nil {
		return defaultValue, false
	}

	envVarName := strings.ToUpper(canonicalProperty)
	envVarName = strings.ReplaceAll(envVarName, "_", "__")
	envVarName = strings.ReplaceAll(envVarName, ".", "_")
	if val, ok := os.LookupEnv(envVarName); ok {
		v := reflect.ValueOf(val)
		if !v.CanConvert(t) {
			return defaultValue, false
		}
		cv := v.Convert(t)
		if !cv.IsZero() &&
			!(cv.Kind() == reflect.Ptr && cv.IsNil()) {
			return cv.Interface().(V), true
		}
	}
	return defaultValue, false
}

func findProperty(
	element reflect.Value, property string,
) (reflect.Value, bool) {

	if element.Kind() == reflect.Map {
		if element.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		value := element.MapIndex(reflect.ValueOf(property))
		if !value.IsValid() {
			return reflect.Value{}, false
		}
		return value, true
	}

	if element.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	t := element.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}

		if f.Tag.Get("toml") == property {
			return element.Field(i), true
		}
	}
	return reflect.Value{}, false
}
