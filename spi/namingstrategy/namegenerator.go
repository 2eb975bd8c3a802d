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

// NameGenerator wraps a NamingStrategy to simplify its usage
// with the topic prefix being predefined. Generated names are
// sanitized.
type NameGenerator interface {
	TopicName(
		tableName string,
	) string
}

// NewNameGeneratorFromConfig creates a NameGenerator using the
// configured prefix and naming strategy
func NewNameGeneratorFromConfig(
	c *config.Config,
) (NameGenerator, error) {

	strategyType := config.GetOrDefault(c, config.PropertySinkNamingStrategy, config.Prefixed)
	namingStrategy, err := NewNamingStrategy(strategyType, c)
	if err != nil {
		return nil, err
	}
	topicPrefix := config.GetOrDefault(c, config.PropertySinkPrefix, "")
	return NewNameGenerator(topicPrefix, namingStrategy), nil
}

func NewNameGenerator(
	topicPrefix string, namingStrategy NamingStrategy,
) NameGenerator {

	return &nameGenerator{
		namingStrategy: namingStrategy,
		topicPrefix:    topicPrefix,
	}
}

type nameGenerator struct {
	namingStrategy NamingStrategy
	topicPrefix    string
}

func (n *nameGenerator) TopicName(
	tableName string,
) string {

	topicName, _ := SanitizeTopicName(n.namingStrategy.TopicName(n.topicPrefix, tableName))
	return topicName
}
