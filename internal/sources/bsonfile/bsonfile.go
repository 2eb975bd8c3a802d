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

package bsonfile

import (
	"bufio"
	"context"
	"encoding/binary"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/source"
	"go.mongodb.org/mongo-driver/v2/bson"
	"io"
	"os"
)

// minDocumentSize is the length prefix plus the trailing null byte
// of an empty BSON document.
const minDocumentSize = 5

// maxDocumentSize matches the 16MB limit of MongoDB plus some slack
// for mongodump output of oversized documents.
const maxDocumentSize = 48 * 1024 * 1024

func init() {
	source.RegisterSource(config.BsonFile, newBsonFileSource)
}

type bsonFileSource struct {
	path   string
	file   *os.File
	logger *logging.Logger
}

func newBsonFileSource(
	c *config.Config,
) (source.Source, error) {

	path := config.GetOrDefault(c, config.PropertyBsonFilePath, "")
	if path == "" {
		return nil, errors.Errorf("BSON file source needs the file path to be configured")
	}

	logger, err := logging.NewLogger("BsonFileSource")
	if err != nil {
		return nil, err
	}

	return &bsonFileSource{
		path:   path,
		logger: logger,
	}, nil
}

func (b *bsonFileSource) Open(
	ctx context.Context,
) (document.Iterator, error) {

	if b.file != nil {
		return nil, errors.Errorf("bson source '%s' is already open", b.path)
	}

	f, err := os.Open(b.path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	b.file = f
	b.logger.Verbosef("Reading documents from %s", b.path)

	reader := bufio.NewReader(f)
	return func() (document.Value, bool, error) {
		if err := ctx.Err(); err != nil {
			return document.Value{}, false, err
		}

		raw, err := readDocument(reader)
		if err == io.EOF {
			return document.Value{}, false, nil
		} else if err != nil {
			return document.Value{}, false, err
		}

		value, err := document.FromRaw(raw)
		if err != nil {
			return document.Value{}, false, err
		}
		return value, true, nil
	}, nil
}

func (b *bsonFileSource) Close() error {
	if b.file == nil {
		return nil
	}
	f := b.file
	b.file = nil
	return f.Close()
}

// readDocument reads the next length-prefixed document. A clean end
// of the stream between two documents is reported as io.EOF.
func readDocument(
	reader io.Reader,
) (bson.Raw, error) {

	header := make([]byte, 4)
	if _, err := io.ReadFull(reader, header); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.WrapPrefix(err, "truncated BSON document header", 0)
	}

	size := int32(binary.LittleEndian.Uint32(header))
	if size < minDocumentSize || size > maxDocumentSize {
		return nil, errors.Errorf("invalid BSON document size %d", size)
	}

	raw := make([]byte, size)
	copy(raw, header)
	if _, err := io.ReadFull(reader, raw[4:]); err != nil {
		return nil, errors.WrapPrefix(err, "truncated BSON document", 0)
	}

	doc := bson.Raw(raw)
	if err := doc.Validate(); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return doc, nil
}
