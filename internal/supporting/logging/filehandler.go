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

package logging

import (
	"github.com/go-errors/errors"
	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
	"github.com/gookit/slog/rotatefile"
	"github.com/inhies/go-bytesize"
	spiconfig "github.com/noctarius/document-relationalizer/spi/config"
)

const (
	defaultMaxSize    bytesize.ByteSize = 5 * bytesize.MB
	defaultBufferSize                   = 1024
)

// newFileHandler returns the handler for the configured log file. A
// path is only opened once, loggers writing to the same file share
// the handler. Without rotation the output is buffered, otherwise
// the file rotates by time when max duration is set, and by size
// in all other cases.
func newFileHandler(
	config spiconfig.LoggerFileConfig,
) (bool, *handler.SyncCloseHandler, error) {

	if !isEnabled(config.Enabled, false) {
		return false, nil, nil
	}

	fileHandlersMutex.Lock()
	defer fileHandlersMutex.Unlock()

	if h, ok := fileHandlers[config.Path]; ok {
		return true, h, nil
	}

	configurator := func(c *handler.Config) {
		c.Levels = slog.AllLevels
		c.Level = slog.TraceLevel
		c.Compress = config.Compress
	}

	var fileHandler *handler.SyncCloseHandler
	var err error
	switch {
	case !isEnabled(config.Rotate, false):
		fileHandler, err = handler.NewBuffFileHandler(config.Path, defaultBufferSize, configurator)

	case config.MaxDuration != nil:
		seconds := rotatefile.RotateTime(config.MaxDuration.Seconds())
		fileHandler, err = handler.NewTimeRotateFileHandler(config.Path, seconds, configurator)

	default:
		maxSize := defaultMaxSize
		if config.MaxSize != nil {
			if maxSize, err = bytesize.Parse(*config.MaxSize); err != nil {
				return false, nil, errors.WrapPrefix(err, "failed to parse max log file size '"+*config.MaxSize+"'", 0)
			}
		}
		fileHandler, err = handler.NewSizeRotateFileHandler(config.Path, int(maxSize), configurator)
	}

	if err != nil {
		return false, nil, errors.WrapPrefix(err, "failed to initialize log file handler for "+config.Path, 0)
	}

	fileHandlers[config.Path] = fileHandler
	return true, fileHandler, nil
}
