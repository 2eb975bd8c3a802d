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

package main

import (
	spiconfig "github.com/noctarius/document-relationalizer/spi/config"
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_ApplyFlags(
	t *testing.T,
) {

	defer func() {
		rootTable = ""
		input = ""
	}()

	rootTable = "orders"
	input = "dump/shop/orders.BSON"
	config := &spiconfig.Config{}
	applyFlags(config)

	assert.Equal(t, "orders", config.Relationalize.Root)
	assert.Equal(t, spiconfig.BsonFile, config.Source.Type)
	assert.Equal(t, "dump/shop/orders.BSON", config.Source.BsonFile.Path)

	rootTable = ""
	input = "orders.jsonl"
	config = &spiconfig.Config{Relationalize: spiconfig.RelationalizeConfig{Root: "configured"}}
	applyFlags(config)

	assert.Equal(t, "configured", config.Relationalize.Root)
	assert.Equal(t, spiconfig.JsonFile, config.Source.Type)
	assert.Equal(t, "orders.jsonl", config.Source.JsonFile.Path)
}
