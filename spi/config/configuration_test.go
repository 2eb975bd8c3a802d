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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func Test_Env_Vars(
	t *testing.T,
) {

	os.Setenv("FOO_BAR", "foo")
	defer os.Unsetenv("FOO_BAR")

	os.Setenv("FOO_BAR__BAZ", "bar")
	defer os.Unsetenv("FOO_BAR__BAZ")

	// On Windows environment variables are case-insensitive, therefore,
	// this test will always fail if trying to use different casing versions
	if runtime.GOOS != "windows" {
		os.Setenv("foo_bar", "bar")
		defer os.Unsetenv("foo_bar")

		os.Setenv("foo_bar__baz", "foo")
		defer os.Unsetenv("foo_bar__baz")
	}

	v, found := findEnvProperty("foo.bar", "test")
	assert.Equal(t, true, found)
	assert.Equal(t, "foo", v)

	v, found = findEnvProperty("foo.bar_baz", "test")
	assert.Equal(t, true, found)
	assert.Equal(t, "bar", v)

	v, found = findEnvProperty("oof.bar", "test")
	assert.Equal(t, false, found)
	assert.Equal(t, "test", v)

	v, found = findEnvProperty("oof.bar_baz", "test")
	assert.Equal(t, false, found)
	assert.Equal(t, "test", v)
}

func Test_Property_Extraction(
	t *testing.T,
) {

	config := Config{
		Sink: SinkConfig{
			Type: Kafka,
			Kafka: KafkaConfig{
				Brokers: []string{"foo", "bar"},
			},
		},
	}

	value := reflect.ValueOf(config)
	v1, found := findProperty(value, "sink")
	assert.Equal(t, true, found)

	v2, found := findProperty(v1, "type")
	assert.Equal(t, true, found)
	assert.Equal(t, "kafka", string(v2.Interface().(SinkType)))

	v3, found := findProperty(v1, "kafka")
	assert.Equal(t, true, found)

	v4, found := findProperty(v3, "brokers")
	assert.Equal(t, true, found)
	assert.Equal(t, []string{"foo", "bar"}, v4.Interface().([]string))
}

func Test_Config_Property_Reading(
	t *testing.T,
) {

	config := &Config{
		Sink: SinkConfig{
			Type: Kafka,
			Kafka: KafkaConfig{
				Brokers: []string{"foo", "bar"},
			},
		},
	}

	v1 := GetOrDefault(config, PropertySink, "foo")
	assert.Equal(t, "kafka", v1)

	v2 := GetOrDefault(config, PropertyKafkaBrokers, []string{"baz"})
	assert.Equal(t, []string{"foo", "bar"}, v2)

	v3 := GetOrDefault(config, PropertyKafkaTlsEnabled, true)
	assert.Equal(t, true, v3)

	v4 := GetOrDefault(config, "sink.kafka.non.existent", true)
	assert.Equal(t, true, v4)

	os.Setenv("SINK_TYPE", "redis")
	defer os.Unsetenv("SINK_TYPE")

	v5 := GetOrDefault(config, PropertySink, "foo")
	assert.Equal(t, "redis", v5)
}

func Test_Config_Typed_Property_Reading(
	t *testing.T,
) {

	ignoreArrays := true
	config := &Config{
		Relationalize: RelationalizeConfig{
			Root:         "users",
			IgnoreArrays: &ignoreArrays,
		},
		Filters: map[string]DocumentFilterConfig{
			"active": {Condition: "doc.active == true"},
		},
	}

	assert.Equal(t, "users", GetOrDefault(config, PropertyRelationalizeRoot, "root"))
	assert.Equal(t, true, GetOrDefault(config, PropertyRelationalizeIgnoreArrays, false))
	assert.Equal(t, false, GetOrDefault(config, PropertyRelationalizeIgnoreObjects, false))
	assert.Equal(t, MintEmptyArrays, GetOrDefault(config, PropertyRelationalizeEmptyArrays, MintEmptyArrays))
	assert.Equal(t, Memory, GetOrDefault(config, PropertyStagingType, Memory))

	condition := GetOrDefault(config, "filters.active.condition", "")
	assert.Equal(t, "doc.active == true", condition)

	missing := GetOrDefault(config, "filters.inactive.condition", "none")
	assert.Equal(t, "none", missing)
}

func Test_Config_Env_Var_Bool_Is_Ignored(
	t *testing.T,
) {

	os.Setenv("RELATIONALIZE_IGNOREARRAYS", "true")
	defer os.Unsetenv("RELATIONALIZE_IGNOREARRAYS")

	// strings cannot be converted into booleans, the config value is used
	config := &Config{}
	assert.Equal(t, false, GetOrDefault(config, PropertyRelationalizeIgnoreArrays, false))
}

func Test_Unmarshall_Toml(
	t *testing.T,
) {

	content := `
[relationalize]
root = "users"
ignorearrays = true
emptyarrays = "null"

[sink]
type = "kafka"
prefix = "rel."

[sink.kafka]
brokers = ["localhost:9092"]

[filters.active]
condition = "doc.active"
default = false
`

	config := &Config{}
	err := Unmarshall([]byte(content), config, true)
	assert.NoError(t, err)

	assert.Equal(t, "users", config.Relationalize.Root)
	assert.NotNil(t, config.Relationalize.IgnoreArrays)
	assert.True(t, *config.Relationalize.IgnoreArrays)
	assert.Nil(t, config.Relationalize.IgnoreObjects)
	assert.Equal(t, NullEmptyArrays, config.Relationalize.EmptyArrays)
	assert.Equal(t, Kafka, config.Sink.Type)
	assert.Equal(t, "rel.", config.Sink.Prefix)
	assert.Equal(t, []string{"localhost:9092"}, config.Sink.Kafka.Brokers)
	assert.Equal(t, "doc.active", config.Filters["active"].Condition)
	assert.False(t, *config.Filters["active"].DefaultValue)
}

func Test_Unmarshall_Yaml(
	t *testing.T,
) {

	content := `
relationalize:
  root: orders
  ignoreobjects: true
source:
  type: jsonfile
  jsonfile:
    path: /tmp/orders.jsonl
schema:
  output: /tmp/schema.json
  dropnullcolumns: true
`

	config := &Config{}
	err := Unmarshall([]byte(content), config, false)
	assert.NoError(t, err)

	assert.Equal(t, "orders", config.Relationalize.Root)
	assert.True(t, *config.Relationalize.IgnoreObjects)
	assert.Equal(t, JsonFile, config.Source.Type)
	assert.Equal(t, "/tmp/orders.jsonl", config.Source.JsonFile.Path)
	assert.Equal(t, "/tmp/schema.json", config.Schema.Output)
	assert.True(t, config.Schema.DropNullColumns)
}

func Test_Unmarshall_Unknown_Properties(
	t *testing.T,
) {

	err := Unmarshall([]byte("[relationalize]\nroot = \"users\"\nignorearray = true\n"), &Config{}, true)
	assert.ErrorContains(t, err, "relationalize.ignorearray")

	err = Unmarshall([]byte("relationalize:\n  rot: users\n"), &Config{}, false)
	assert.Error(t, err)

	assert.NoError(t, Unmarshall([]byte(""), &Config{}, false))
}

func Test_Unmarshall_File(
	t *testing.T,
) {

	directory := t.TempDir()
	tomlFile := filepath.Join(directory, "config.TOML")
	require.NoError(t, os.WriteFile(tomlFile, []byte("[sink]\ntype = \"file\"\n"), 0o600))
	yamlFile := filepath.Join(directory, "config.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("sink:\n  type: sqlite\n"), 0o600))

	config := &Config{}
	require.NoError(t, UnmarshallFile(tomlFile, config))
	assert.Equal(t, File, config.Sink.Type)

	config = &Config{}
	require.NoError(t, UnmarshallFile(yamlFile, config))
	assert.Equal(t, SQLite, config.Sink.Type)

	assert.Error(t, UnmarshallFile(filepath.Join(directory, "missing.toml"), &Config{}))
}
