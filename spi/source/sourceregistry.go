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

package source

import (
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/spi/config"
	"sync"
)

var sourceRegistry = &registry{
	mutex:     sync.Mutex{},
	providers: make(map[config.SourceType]Provider),
}

type registry struct {
	mutex     sync.Mutex
	providers map[config.SourceType]Provider
}

// RegisterSource registers a config.SourceType to a Provider
// implementation which creates the Source when requested
func RegisterSource(
	name config.SourceType, provider Provider,
) bool {

	sourceRegistry.mutex.Lock()
	defer sourceRegistry.mutex.Unlock()
	if _, present := sourceRegistry.providers[name]; !present {
		sourceRegistry.providers[name] = provider
		return true
	}
	return false
}

// NewSource instantiates a new instance of the requested
// Source when available, otherwise returns an error.
func NewSource(
	name config.SourceType, config *config.Config,
) (Source, error) {

	sourceRegistry.mutex.Lock()
	defer sourceRegistry.mutex.Unlock()
	if p, present := sourceRegistry.providers[name]; present {
		return p(config)
	}
	return nil, errors.Errorf("SourceType '%s' doesn't exist", name)
}
