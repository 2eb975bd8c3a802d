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

package sqlite

import (
	"database/sql"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/encoding"
	"github.com/noctarius/document-relationalizer/spi/sink"
	_ "modernc.org/sqlite"
	"strings"
)

const defaultBatchSize = 1000

func init() {
	sink.RegisterSink(config.SQLite, newSQLiteSink)
}

// SQLiteSink stores the records of every table as JSON text in a
// table of the same name inside a single SQLite database file.
type SQLiteSink struct {
	path      string
	batchSize int
	db        *sql.DB
	encoder   *encoding.JsonEncoder
	decoder   *encoding.JsonDecoder
	logger    *logging.Logger
}

func newSQLiteSink(
	c *config.Config,
) (sink.Sink, error) {

	return NewSQLiteSink(
		config.GetOrDefault(c, config.PropertySQLitePath, "relationalized.db"),
		config.GetOrDefault(c, config.PropertySQLiteBatchSize, defaultBatchSize),
	)
}

func NewSQLiteSink(
	path string, batchSize int,
) (*SQLiteSink, error) {

	if batchSize < 1 {
		return nil, errors.Errorf("illegal batch size %d", batchSize)
	}

	logger, err := logging.NewLogger("SQLiteSink")
	if err != nil {
		return nil, err
	}

	return &SQLiteSink{
		path:      path,
		batchSize: batchSize,
		encoder:   encoding.NewJsonEncoder(),
		decoder:   encoding.NewJsonDecoder(),
		logger:    logger,
	}, nil
}

func (s *SQLiteSink) Start() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	// a single connection serializes all writers on the file
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return errors.Wrap(err, 0)
	}
	s.db = db
	s.logger.Verbosef("Opened SQLite database %s", s.path)
	return nil
}

func (s *SQLiteSink) Stop() error {
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

func (s *SQLiteSink) NewOutput(
	table string,
) (sink.Output, error) {

	if s.db == nil {
		return nil, errors.Errorf("SQLite sink isn't started")
	}

	tableName := quoteIdentifier(table)
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY AUTOINCREMENT, record TEXT NOT NULL)", tableName,
	)
	if _, err := s.db.Exec(query); err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return &sqliteOutput{
		sink:      s,
		statement: fmt.Sprintf("INSERT INTO %s (record) VALUES (?)", tableName),
		pending:   make([]string, 0, s.batchSize),
	}, nil
}

func (s *SQLiteSink) Replay(
	table string, fn func(record *document.Object) error,
) error {

	if s.db == nil {
		return errors.Errorf("SQLite sink isn't started")
	}

	rows, err := s.db.Query(fmt.Sprintf("SELECT record FROM %s ORDER BY id", quoteIdentifier(table)))
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return errors.Wrap(err, 0)
		}
		record, err := s.decoder.Unmarshal([]byte(data))
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

type sqliteOutput struct {
	sink      *SQLiteSink
	statement string
	pending   []string
}

func (o *sqliteOutput) Write(
	record *document.Object,
) error {

	data, err := o.sink.encoder.Marshal(record)
	if err != nil {
		return err
	}
	o.pending = append(o.pending, string(data))
	if len(o.pending) >= o.sink.batchSize {
		return o.flush()
	}
	return nil
}

func (o *sqliteOutput) Close() error {
	return o.flush()
}

func (o *sqliteOutput) flush() error {
	if len(o.pending) == 0 {
		return nil
	}

	tx, err := o.sink.db.Begin()
	if err != nil {
		return errors.Wrap(err, 0)
	}

	statement, err := tx.Prepare(o.statement)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, 0)
	}
	defer statement.Close()

	for _, data := range o.pending {
		if _, err := statement.Exec(data); err != nil {
			tx.Rollback()
			return errors.Wrap(err, 0)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, 0)
	}
	o.pending = o.pending[:0]
	return nil
}

func quoteIdentifier(
	identifier string,
) string {

	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
