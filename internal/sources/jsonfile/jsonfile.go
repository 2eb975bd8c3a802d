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

package jsonfile

import (
	"bufio"
	"context"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/source"
	"io"
	"os"
)

const stdinPath = "-"

func init() {
	source.RegisterSource(config.JsonFile, newJsonFileSource)
}

type jsonFileSource struct {
	path     string
	extended bool
	reader   io.ReadCloser
	logger   *logging.Logger
}

func newJsonFileSource(
	c *config.Config,
) (source.Source, error) {

	path := config.GetOrDefault(c, config.PropertyJsonFilePath, stdinPath)
	extended := config.GetOrDefault(c, config.PropertyJsonFileExtended, false)

	logger, err := logging.NewLogger("JsonFileSource")
	if err != nil {
		return nil, err
	}

	return &jsonFileSource{
		path:     path,
		extended: extended,
		logger:   logger,
	}, nil
}

func (j *jsonFileSource) Open(
	ctx context.Context,
) (document.Iterator, error) {

	if j.reader != nil {
		return nil, errors.Errorf("json source '%s' is already open", j.path)
	}

	if j.path == stdinPath {
		j.logger.Verboseln("Reading documents from stdin")
		j.reader = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(j.path)
		if err != nil {
			return nil, errors.Wrap(err, 0)
		}
		j.logger.Verbosef("Reading documents from %s", j.path)
		j.reader = f
	}

	iterator := document.NewJSONDecoder(bufio.NewReader(j.reader)).Iterator()
	if j.extended {
		iterator = extendedIterator(iterator)
	}
	return withContext(ctx, iterator), nil
}

func (j *jsonFileSource) Close() error {
	if j.reader == nil {
		return nil
	}
	reader := j.reader
	j.reader = nil
	return reader.Close()
}

// extendedIterator re-parses every top-level value as MongoDB
// extended JSON, which resolves $oid, $date, $numberLong and friends
// into their typed values.
func extendedIterator(
	iterator document.Iterator,
) document.Iterator {

	return func() (document.Value, bool, error) {
		value, ok, err := iterator()
		if err != nil || !ok {
			return value, ok, err
		}

		data, err := value.MarshalJSON()
		if err != nil {
			return document.Value{}, false, err
		}

		value, err = document.ParseExtendedJSON(data)
		if err != nil {
			return document.Value{}, false, err
		}
		return value, true, nil
	}
}

func withContext(
	ctx context.Context, iterator document.Iterator,
) document.Iterator {

	return func() (document.Value, bool, error) {
		if err := ctx.Err(); err != nil {
			return document.Value{}, false, err
		}
		return iterator()
	}
}
