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
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/samber/lo"
	"sort"
	"strings"
	"sync"
)

type Factory func(config *config.Config) (NamingStrategy, error)

var namingStrategyRegistry = &registry{
	factories: make(map[config.NamingStrategyType]Factory),
}

type registry struct {
	mutex     sync.Mutex
	factories map[config.NamingStrategyType]Factory
}

// RegisterNamingStrategy registers the factory for a naming
// strategy type. The first registration of a type wins.
func RegisterNamingStrategy(
	name config.NamingStrategyType, factory Factory,
) bool {

	namingStrategyRegistry.mutex.Lock()
	defer namingStrategyRegistry.mutex.Unlock()
	if _, present := namingStrategyRegistry.factories[name]; present {
		return false
	}
	namingStrategyRegistry.factories[name] = factory
	return true
}

// NewNamingStrategy creates the requested naming strategy. Unknown
// types fail with the list of available strategies.
func NewNamingStrategy(
	name config.NamingStrategyType, config *config.Config,
) (NamingStrategy, error) {

	namingStrategyRegistry.mutex.Lock()
	defer namingStrategyRegistry.mutex.Unlock()
	if factory, present := namingStrategyRegistry.factories[name]; present {
		return factory(config)
	}
	return nil, errors.Errorf(
		"NamingStrategyType '%s' doesn't exist, available: %s", name, strings.Join(availableStrategies(), ", "),
	)
}

func availableStrategies() []string {
	names := lo.MapToSlice(namingStrategyRegistry.factories,
		func(name config.NamingStrategyType, _ Factory) string {
			return string(name)
		},
	)
	sort.Strings(names)
	return names
}
