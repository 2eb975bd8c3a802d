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

package mongodb

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/source"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"time"
)

const disconnectTimeout = 10 * time.Second

func init() {
	source.RegisterSource(config.MongoDB, newMongoSource)
}

type mongoSource struct {
	uri        string
	database   string
	collection string
	filter     bson.D
	batchSize  int32
	client     *mongo.Client
	cursor     *mongo.Cursor
	logger     *logging.Logger
}

func newMongoSource(
	c *config.Config,
) (source.Source, error) {

	uri := config.GetOrDefault(c, config.PropertyMongoUri, "mongodb://localhost:27017")
	database := config.GetOrDefault(c, config.PropertyMongoDatabase, "")
	collection := config.GetOrDefault(c, config.PropertyMongoCollection, "")
	if database == "" || collection == "" {
		return nil, errors.Errorf("MongoDB source needs database and collection to be configured")
	}

	filter, err := parseFilter(config.GetOrDefault(c, config.PropertyMongoFilter, ""))
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger("MongoSource")
	if err != nil {
		return nil, err
	}

	return &mongoSource{
		uri:        uri,
		database:   database,
		collection: collection,
		filter:     filter,
		batchSize:  config.GetOrDefault(c, config.PropertyMongoBatchSize, int32(1000)),
		logger:     logger,
	}, nil
}

func (m *mongoSource) Open(
	ctx context.Context,
) (document.Iterator, error) {

	if m.client != nil {
		return nil, errors.Errorf("mongodb source '%s.%s' is already open", m.database, m.collection)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	m.client = client

	m.logger.Infof("Reading documents from %s.%s", m.database, m.collection)
	cursor, err := client.Database(m.database).Collection(m.collection).Find(
		ctx, m.filter, options.Find().SetBatchSize(m.batchSize),
	)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	m.cursor = cursor

	return func() (document.Value, bool, error) {
		if !cursor.Next(ctx) {
			if err := cursor.Err(); err != nil {
				return document.Value{}, false, errors.Wrap(err, 0)
			}
			return document.Value{}, false, nil
		}

		value, err := document.FromRaw(cursor.Current)
		if err != nil {
			return document.Value{}, false, err
		}
		return value, true, nil
	}, nil
}

func (m *mongoSource) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	var err error
	if m.cursor != nil {
		err = m.cursor.Close(ctx)
		m.cursor = nil
	}
	if m.client != nil {
		if e := m.client.Disconnect(ctx); e != nil && err == nil {
			err = e
		}
		m.client = nil
	}
	return err
}

// parseFilter reads the optional filter document given as
// MongoDB extended JSON. An empty filter matches all documents.
func parseFilter(
	filter string,
) (bson.D, error) {

	if filter == "" {
		return bson.D{}, nil
	}

	var d bson.D
	if err := bson.UnmarshalExtJSON([]byte(filter), false, &d); err != nil {
		return nil, errors.WrapPrefix(err, "illegal MongoDB filter document", 0)
	}
	return d, nil
}
