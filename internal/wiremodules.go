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

package internal

import (
	"github.com/noctarius/document-relationalizer/internal/filtering"
	"github.com/noctarius/document-relationalizer/internal/staging"
	"github.com/noctarius/document-relationalizer/internal/stats"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/schema"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/spi/source"
	"github.com/noctarius/document-relationalizer/spi/wiring"
)

var StaticModule = wiring.DefineModule(
	"Static", func(module wiring.Module) {
		module.Provide(filtering.NewDocumentFilterFromConfig)
		module.Provide(stats.NewStatsService)
		module.Provide(staging.NewStorage)
		module.Provide(func() *schema.Schema {
			return schema.NewSchema(schema.WithSourceDialect(schema.MongoDialect))
		})
		module.Provide(newSession)
	},
)

var DynamicModule = wiring.DefineModule(
	"Dynamic", func(module wiring.Module) {
		module.Provide(func(c *config.Config) (source.Source, error) {
			name := config.GetOrDefault(c, config.PropertySource, config.JsonFile)
			return source.NewSource(name, c)
		})

		module.Provide(func(c *config.Config) (sink.Sink, error) {
			name := config.GetOrDefault(c, config.PropertySink, config.Stdout)
			return sink.NewSink(name, c)
		})
	},
)

func configModule(
	c *config.Config,
) wiring.Module {

	return wiring.DefineModule(
		"Config", func(module wiring.Module) {
			module.Provide(func() *config.Config {
				return c
			})
		},
	)
}
