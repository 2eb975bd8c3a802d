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

package file

import (
	"bufio"
	"github.com/go-errors/errors"
	"github.com/gookit/goutil/fsutil"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/encoding"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"os"
	"path/filepath"
)

const fileExtension = ".jsonl"

func init() {
	sink.RegisterSink(config.File, newFileSink)
}

// FileSink writes one JSON Lines file per table into a directory.
type FileSink struct {
	directory string
	encoder   *encoding.JsonEncoder
	decoder   *encoding.JsonDecoder
	logger    *logging.Logger
}

func newFileSink(
	c *config.Config,
) (sink.Sink, error) {

	return NewFileSink(config.GetOrDefault(c, config.PropertyFileSinkPath, "."))
}

func NewFileSink(
	directory string,
) (*FileSink, error) {

	logger, err := logging.NewLogger("FileSink")
	if err != nil {
		return nil, err
	}

	return &FileSink{
		directory: directory,
		encoder:   encoding.NewJsonLinesEncoder(),
		decoder:   encoding.NewJsonDecoder(),
		logger:    logger,
	}, nil
}

func (f *FileSink) Start() error {
	if err := fsutil.Mkdir(f.directory, 0o755); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func (f *FileSink) Stop() error {
	return nil
}

// TablePath returns the path of the file holding the table.
func (f *FileSink) TablePath(
	table string,
) string {

	return filepath.Join(f.directory, table+fileExtension)
}

func (f *FileSink) NewOutput(
	table string,
) (sink.Output, error) {

	path := f.TablePath(table)
	file, err := fsutil.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	f.logger.Verbosef("Writing table '%s' to %s", table, path)

	return &fileOutput{
		file:    file,
		writer:  bufio.NewWriter(file),
		encoder: f.encoder,
	}, nil
}

func (f *FileSink) Replay(
	table string, fn func(record *document.Object) error,
) error {

	path := f.TablePath(table)
	if !fsutil.IsFile(path) {
		return errors.Errorf("table '%s' was never written", table)
	}

	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer file.Close()

	iterator := document.NewJSONDecoder(bufio.NewReader(file)).Iterator()
	for {
		value, ok, err := iterator()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		record, isObject := value.AsObject()
		if !isObject {
			return errors.Errorf("illegal record in %s: %s", path, value)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

type fileOutput struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *encoding.JsonEncoder
}

func (o *fileOutput) Write(
	record *document.Object,
) error {

	data, err := o.encoder.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := o.writer.Write(data); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func (o *fileOutput) Close() error {
	if err := o.writer.Flush(); err != nil {
		o.file.Close()
		return errors.Wrap(err, 0)
	}
	return o.file.Close()
}
