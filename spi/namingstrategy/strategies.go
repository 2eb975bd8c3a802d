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

package namingstrategy

import (
	"github.com/noctarius/document-relationalizer/spi/config"
)

func init() {
	RegisterNamingStrategy(config.Prefixed,
		func(_ *config.Config) (NamingStrategy, error) {
			return &prefixedNamingStrategy{}, nil
		},
	)
	RegisterNamingStrategy(config.Dotted,
		func(_ *config.Config) (NamingStrategy, error) {
			return &dottedNamingStrategy{}, nil
		},
	)
}

// prefixedNamingStrategy concatenates prefix and table name
type prefixedNamingStrategy struct {
}

func (p *prefixedNamingStrategy) TopicName(
	topicPrefix, tableName string,
) string {

	return topicPrefix + tableName
}

// dottedNamingStrategy separates prefix and table name by a dot
type dottedNamingStrategy struct {
}

func (d *dottedNamingStrategy) TopicName(
	topicPrefix, tableName string,
) string {

	if topicPrefix == "" {
		return tableName
	}
	return topicPrefix + "." + tableName
}
