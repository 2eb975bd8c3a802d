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

package staging

import (
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"os"
	"path/filepath"
)

const sqliteFileName = "staging.db"

// Storage holds the flattened records between the two passes of a
// session. Every table written to it can be replayed in write order.
type Storage interface {
	sink.Sink
	sink.Replayer
}

type storage struct {
	Storage
	temporary string
	logger    *logging.Logger
}

// NewStorage creates the configured staging storage. The file and
// sqlite storages use a temporary location when no path is given,
// which is removed again when the storage is stopped.
func NewStorage(
	c *config.Config,
) (Storage, error) {

	logger, err := logging.NewLogger("Staging")
	if err != nil {
		return nil, err
	}

	stagingType := config.GetOrDefault(c, config.PropertyStagingType, config.Memory)
	path := config.GetOrDefault(c, config.PropertyStagingPath, "")

	temporary := ""
	if path == "" && stagingType != config.Memory {
		if path, err = os.MkdirTemp("", "relationalizer-staging-*"); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		temporary = path
	}

	// staging reuses the regular sink implementations, configured
	// against the staging location
	stagingConfig := *c
	switch stagingType {
	case config.File:
		stagingConfig.Sink.File.Path = path
	case config.SQLite:
		if temporary != "" {
			path = filepath.Join(path, sqliteFileName)
		}
		stagingConfig.Sink.SQLite.Path = path
	}

	s, err := sink.NewSink(stagingType, &stagingConfig)
	if err != nil {
		removeTemporary(temporary)
		return nil, err
	}

	replayable, ok := s.(Storage)
	if !ok {
		removeTemporary(temporary)
		return nil, errors.Errorf("SinkType '%s' can't be used for staging, it isn't replayable", stagingType)
	}

	logger.Verbosef("Staging records in %s storage", stagingType)
	return &storage{
		Storage:   replayable,
		temporary: temporary,
		logger:    logger,
	}, nil
}

func (s *storage) Stop() error {
	err := s.Storage.Stop()
	if s.temporary != "" {
		s.logger.Debugf("Removing temporary staging location %s", s.temporary)
		if e := os.RemoveAll(s.temporary); e != nil && err == nil {
			err = errors.Wrap(e, 0)
		}
		s.temporary = ""
	}
	return err
}

func removeTemporary(
	path string,
) {

	if path != "" {
		_ = os.RemoveAll(path)
	}
}
