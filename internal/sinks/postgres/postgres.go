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

package postgres

import (
	"context"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/noctarius/document-relationalizer/internal/sinks/retrying"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/encoding"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/spi/version"
)

const defaultBatchSize = 500

func init() {
	sink.RegisterSink(config.Postgres, newPostgresSink)
}

// database is the subset of pgxpool.Pool used by the sink
type database interface {
	Exec(
		ctx context.Context, sql string, arguments ...any,
	) (pgconn.CommandTag, error)
	Query(
		ctx context.Context, sql string, args ...any,
	) (pgx.Rows, error)
	QueryRow(
		ctx context.Context, sql string, args ...any,
	) pgx.Row
	SendBatch(
		ctx context.Context, b *pgx.Batch,
	) pgx.BatchResults
}

type postgresSink struct {
	pool      *pgxpool.Pool
	db        database
	schema    string
	batchSize int
	encoder   *encoding.JsonEncoder
	decoder   *encoding.JsonDecoder
	retrier   *retrying.Retrier
	logger    *logging.Logger
}

func newPostgresSink(
	c *config.Config,
) (sink.Sink, error) {

	connection := config.GetOrDefault(c, config.PropertyPostgresConnection, "host=localhost user=postgres")
	poolConfig, err := pgxpool.ParseConfig(connection)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if password := config.GetOrDefault(c, config.PropertyPostgresPassword, ""); password != "" {
		poolConfig.ConnConfig.Password = password
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	s, err := newPostgresSinkWithDatabase(c, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.pool = pool
	return s, nil
}

func newPostgresSinkWithDatabase(
	c *config.Config, db database,
) (*postgresSink, error) {

	logger, err := logging.NewLogger("PostgresSink")
	if err != nil {
		return nil, err
	}

	batchSize := config.GetOrDefault(c, config.PropertyPostgresBatchSize, defaultBatchSize)
	if batchSize < 1 {
		return nil, errors.Errorf("illegal batch size %d", batchSize)
	}

	return &postgresSink{
		db:        db,
		schema:    config.GetOrDefault(c, config.PropertyPostgresSchema, "public"),
		batchSize: batchSize,
		encoder:   encoding.NewJsonEncoder(),
		decoder:   encoding.NewJsonDecoder(),
		retrier:   retrying.NewRetrierWithConfig(c, logger),
		logger:    logger,
	}, nil
}

func (p *postgresSink) Start() error {
	var serverVersion string
	if err := p.db.QueryRow(context.Background(), "SHOW server_version").Scan(&serverVersion); err != nil {
		return errors.Wrap(err, 0)
	}

	pgVersion, err := version.ParsePostgresVersion(serverVersion)
	if err != nil {
		return err
	}
	if pgVersion.Compare(version.PG_MIN_VERSION) < 0 {
		return errors.Errorf(
			"PostgreSQL %s doesn't support JSONB, at least %s is required", pgVersion, version.PG_MIN_VERSION,
		)
	}
	p.logger.Infof("Connected to PostgreSQL %s", pgVersion)

	query := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{p.schema}.Sanitize())
	return p.exec(query)
}

func (p *postgresSink) Stop() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *postgresSink) tableName(
	table string,
) string {

	return pgx.Identifier{p.schema, table}.Sanitize()
}

func (p *postgresSink) NewOutput(
	table string,
) (sink.Output, error) {

	tableName := p.tableName(table)
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id BIGSERIAL PRIMARY KEY, record JSONB NOT NULL)", tableName,
	)
	if err := p.exec(query); err != nil {
		return nil, err
	}

	return &postgresOutput{
		sink:      p,
		statement: fmt.Sprintf("INSERT INTO %s (record) VALUES ($1)", tableName),
		pending:   make([]string, 0, p.batchSize),
	}, nil
}

func (p *postgresSink) Replay(
	table string, fn func(record *document.Object) error,
) error {

	query := fmt.Sprintf("SELECT record::text FROM %s ORDER BY id", p.tableName(table))
	rows, err := p.db.Query(context.Background(), query)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return errors.Wrap(err, 0)
		}
		record, err := p.decoder.Unmarshal([]byte(data))
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

func (p *postgresSink) exec(
	query string,
) error {

	return p.retrier.Do(func() error {
		_, err := p.db.Exec(context.Background(), query)
		if err != nil && !isAlreadyExisting(err) {
			return classify(err)
		}
		return nil
	})
}

type postgresOutput struct {
	sink      *postgresSink
	statement string
	pending   []string
}

func (o *postgresOutput) Write(
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

func (o *postgresOutput) Close() error {
	return o.flush()
}

func (o *postgresOutput) flush() error {
	if len(o.pending) == 0 {
		return nil
	}

	err := o.sink.retrier.Do(func() error {
		batch := &pgx.Batch{}
		for _, data := range o.pending {
			batch.Queue(o.statement, data)
		}

		results := o.sink.db.SendBatch(context.Background(), batch)
		for range o.pending {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return classify(err)
			}
		}
		return classify(results.Close())
	})
	if err != nil {
		return err
	}

	o.pending = o.pending[:0]
	return nil
}

// isAlreadyExisting reports errors of concurrent CREATE ... IF NOT
// EXISTS statements, which race on the system catalog.
func isAlreadyExisting(
	err error,
) bool {

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation ||
			pgErr.Code == pgerrcode.DuplicateTable ||
			pgErr.Code == pgerrcode.DuplicateSchema
	}
	return false
}

// classify marks server errors as permanent unless they signal a
// broken connection or a rolled back transaction.
func classify(
	err error,
) error {

	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsTransactionRollback(pgErr.Code) ||
			pgerrcode.IsInsufficientResources(pgErr.Code) {
			return err
		}
		return retrying.Permanent(err)
	}
	return err
}
