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
	"context"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/filtering"
	"github.com/noctarius/document-relationalizer/internal/relationalizing"
	"github.com/noctarius/document-relationalizer/internal/staging"
	"github.com/noctarius/document-relationalizer/internal/stats"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/schema"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/spi/source"
	"github.com/noctarius/document-relationalizer/spi/wiring"
	"path/filepath"
	"strings"
)

const defaultRootTable = "root"

// Session runs the two passes of a relationalization. The first pass
// flattens all documents into the staging storage while the schema is
// accumulated, the second pass replays the staged records through the
// disambiguation into the final sink.
type Session struct {
	config       *config.Config
	source       source.Source
	sink         sink.Sink
	staging      staging.Storage
	filter       filtering.DocumentFilter
	schema       *schema.Schema
	statsService *stats.Service
	reporter     *stats.Reporter
	logger       *logging.Logger
}

// NewSession wires a new session from the given configuration.
// Additional modules are applied last and override the services
// of the default modules.
func NewSession(
	c *config.Config, modules ...wiring.Module,
) (*Session, error) {

	modules = append([]wiring.Module{configModule(c), StaticModule, DynamicModule}, modules...)
	container, err := wiring.NewContainer(modules...)
	if err != nil {
		return nil, err
	}

	var session *Session
	if err := container.Service(&session); err != nil {
		return nil, err
	}
	return session, nil
}

func newSession(
	c *config.Config, src source.Source, target sink.Sink, storage staging.Storage,
	filter filtering.DocumentFilter, accumulator *schema.Schema, statsService *stats.Service,
) (*Session, error) {

	logger, err := logging.NewLogger("Session")
	if err != nil {
		return nil, err
	}

	return &Session{
		config:       c,
		source:       src,
		sink:         target,
		staging:      storage,
		filter:       filter,
		schema:       accumulator,
		statsService: statsService,
		reporter:     statsService.NewReporter("staging"),
		logger:       logger,
	}, nil
}

// Schema returns the schema accumulated by the session.
func (s *Session) Schema() *schema.Schema {
	return s.schema
}

// Run executes both passes. All outputs, the source and the sinks
// are closed when Run returns, independent of its outcome.
func (s *Session) Run(
	ctx context.Context,
) (err error) {

	if err := s.statsService.Start(); err != nil {
		return err
	}
	defer s.closeAll(&err, "stats service", s.statsService.Stop)

	if err := s.staging.Start(); err != nil {
		return errors.WrapPrefix(err, "staging storage failed to start", 0)
	}
	defer s.closeAll(&err, "staging storage", s.staging.Stop)

	tables, err := s.stage(ctx)
	if err != nil {
		return err
	}

	if err := s.maintainSchema(); err != nil {
		return err
	}

	if err := s.sink.Start(); err != nil {
		return errors.WrapPrefix(err, "sink failed to start", 0)
	}
	defer s.closeAll(&err, "sink", s.sink.Stop)

	return s.replay(ctx, tables)
}

func (s *Session) stage(
	ctx context.Context,
) (tables []string, err error) {

	iterator, err := s.source.Open(ctx)
	if err != nil {
		return nil, errors.WrapPrefix(err, "source failed to open", 0)
	}
	defer s.closeAll(&err, "source", s.source.Close)

	manager := sink.NewManager(s.staging, s.schema.Observer(), s.reporter)
	defer s.closeAll(&err, "staging outputs", manager.Close)

	relationalizer, err := relationalizing.NewRelationalizerWithConfig(s.config, manager)
	if err != nil {
		return nil, err
	}

	rootTable := RootTableName(s.config)
	s.logger.Infof("Relationalizing documents into root table '%s'", rootTable)
	if err := relationalizer.Relationalize(ctx, rootTable, s.filtered(rootTable, iterator)); err != nil {
		return nil, err
	}

	tables = manager.Tables()
	s.logger.Infof("Staged records of %d tables", len(tables))
	return tables, nil
}

func (s *Session) filtered(
	rootTable string, iterator document.Iterator,
) document.Iterator {

	return func() (document.Value, bool, error) {
		for {
			value, present, err := iterator()
			if err != nil || !present {
				return value, present, err
			}

			s.reporter.DocumentRead()
			accepted, err := s.filter.Evaluate(rootTable, value)
			if err != nil {
				return document.Null(), false, err
			}
			if accepted {
				return value, true, nil
			}
			s.reporter.DocumentFiltered()
		}
	}
}

func (s *Session) maintainSchema() error {
	if config.GetOrDefault(s.config, config.PropertySchemaDropNullColumns, false) {
		dropped := s.schema.DropNullColumns()
		s.reporter.ColumnsDropped("null", dropped)
		s.logger.Verbosef("Dropped %d null columns", dropped)
	}

	if config.GetOrDefault(s.config, config.PropertySchemaDropSpecialCharColumns, false) {
		allowed := config.GetOrDefault(s.config, config.PropertySchemaAllowedChars, schema.DefaultAllowedChars)
		dropped := s.schema.DropSpecialCharColumns(allowed)
		s.reporter.ColumnsDropped("specialchars", dropped)
		s.logger.Verbosef("Dropped %d columns with special characters", dropped)
	}

	if config.GetOrDefault(s.config, config.PropertySchemaDropDuplicateColumns, false) {
		dropped := s.schema.DropDuplicateColumns()
		s.reporter.ColumnsDropped("duplicate", dropped)
		s.logger.Verbosef("Dropped %d duplicate columns", dropped)
	}

	if output := config.GetOrDefault(s.config, config.PropertySchemaOutput, ""); output != "" {
		if err := s.schema.SaveFile(output); err != nil {
			return errors.WrapPrefix(err, "schema file couldn't be written", 0)
		}
		s.logger.Infof("Schema written to %s", output)
	}
	return nil
}

func (s *Session) replay(
	ctx context.Context, tables []string,
) (err error) {

	manager := sink.NewManager(s.sink)
	defer s.closeAll(&err, "sink outputs", manager.Close)

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}

		count := 0
		if err := s.staging.Replay(table, func(record *document.Object) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
			return manager.Route(table, s.schema.ConvertObject(table, record))
		}); err != nil {
			return err
		}
		s.logger.Verbosef("Wrote %d records of table '%s'", count, table)
	}
	return nil
}

// closeAll runs the closer and keeps its error, unless an earlier
// error is already present.
func (s *Session) closeAll(
	err *error, name string, closer func() error,
) {

	if e := closer(); e != nil {
		if *err == nil {
			*err = e
		} else {
			s.logger.Warnf("Failed to close %s: %s", name, e)
		}
	}
}

// RootTableName returns the configured root table, or derives one
// from the source: the file name of file sources, the collection of
// MongoDB sources.
func RootTableName(
	c *config.Config,
) string {

	if root := config.GetOrDefault(c, config.PropertyRelationalizeRoot, ""); root != "" {
		return root
	}

	path := ""
	switch config.GetOrDefault(c, config.PropertySource, config.JsonFile) {
	case config.JsonFile:
		path = config.GetOrDefault(c, config.PropertyJsonFilePath, "")
	case config.BsonFile:
		path = config.GetOrDefault(c, config.PropertyBsonFilePath, "")
	case config.MongoDB:
		if collection := config.GetOrDefault(c, config.PropertyMongoCollection, ""); collection != "" {
			return collection
		}
	}

	if path != "" && path != "-" {
		base := filepath.Base(path)
		if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
			return name
		}
	}
	return defaultRootTable
}
