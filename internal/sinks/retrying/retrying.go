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

package retrying

import (
	"github.com/cenkalti/backoff/v4"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"time"
)

const (
	defaultMaxAttempts = uint64(8)
	defaultMaxInterval = 30 * time.Second
)

// Retrier runs sink operations with exponential backoff. Errors
// wrapped by Permanent are returned immediately.
type Retrier struct {
	backOff backoff.BackOff
	logger  *logging.Logger
}

func NewRetrierWithConfig(
	c *config.Config, logger *logging.Logger,
) *Retrier {

	maxAttempts := config.GetOrDefault(c, config.PropertySinkRetriesMaxAttempts, defaultMaxAttempts)
	maxInterval := config.GetOrDefault(c, config.PropertySinkRetriesMaxInterval, defaultMaxInterval)
	return NewRetrier(maxAttempts, maxInterval, logger)
}

func NewRetrier(
	maxAttempts uint64, maxInterval time.Duration, logger *logging.Logger,
) *Retrier {

	exponential := backoff.NewExponentialBackOff()
	exponential.MaxInterval = maxInterval
	if exponential.InitialInterval > maxInterval {
		exponential.InitialInterval = maxInterval
	}
	exponential.MaxElapsedTime = 0

	return &Retrier{
		backOff: backoff.WithMaxRetries(exponential, maxAttempts),
		logger:  logger,
	}
}

// Do runs the operation until it succeeds, fails permanently, or
// the retries are exhausted.
func (r *Retrier) Do(
	operation func() error,
) error {

	// backoff.Retry resets the backoff before the first attempt
	return backoff.RetryNotify(operation, r.backOff, func(err error, next time.Duration) {
		r.logger.Warnf("Sink operation failed, retrying in %s: %s", next, err)
	})
}

func Permanent(
	err error,
) error {

	return backoff.Permanent(err)
}
