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
	"bytes"
	"github.com/BurntSushi/toml"
	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Unmarshall decodes TOML or YAML content into config. Values
// already present in config are kept unless the content sets them.
func Unmarshall(
	content []byte, config *Config, toml bool,
) error {

	if toml {
		return fromToml(content, config)
	}
	return fromYaml(content, config)
}

// UnmarshallFile reads the configuration file at path. Files with
// a .toml extension are decoded as TOML, everything else as YAML.
func UnmarshallFile(
	path string, config *Config,
) error {

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapPrefix(err, "configuration file couldn't be read", 0)
	}

	tomlConfig := strings.ToLower(filepath.Ext(path)) == ".toml"
	if err := Unmarshall(content, config, tomlConfig); err != nil {
		return errors.WrapPrefix(err, "configuration file couldn't be decoded", 0)
	}
	return nil
}

func fromToml(
	content []byte, config *Config,
) error {

	metadata, err := toml.Decode(string(content), config)
	if err != nil {
		return err
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return errors.Errorf("unknown configuration properties: %s", strings.Join(keys, ", "))
	}
	return nil
}

func fromYaml(
	content []byte, config *Config,
) error {

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
