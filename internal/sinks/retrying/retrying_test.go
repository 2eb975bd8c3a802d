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
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

var logger = logging.MustNewLogger("RetrierTest")

func Test_Retrier_RetriesUntilSuccess(
	t *testing.T,
) {

	retrier := NewRetrier(5, time.Millisecond, logger)

	attempts := 0
	err := retrier.Do(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func Test_Retrier_GivesUp(
	t *testing.T,
) {

	retrier := NewRetrier(2, time.Millisecond, logger)

	attempts := 0
	err := retrier.Do(func() error {
		attempts++
		return errors.New("broken")
	})
	assert.ErrorContains(t, err, "broken")
	assert.Equal(t, 3, attempts)
}

func Test_Retrier_Permanent(
	t *testing.T,
) {

	retrier := NewRetrier(5, time.Millisecond, logger)

	attempts := 0
	err := retrier.Do(func() error {
		attempts++
		return Permanent(errors.New("fatal"))
	})
	assert.ErrorContains(t, err, "fatal")
	assert.Equal(t, 1, attempts)
}

func Test_Retrier_Reusable(
	t *testing.T,
) {

	retrier := NewRetrier(1, time.Millisecond, logger)
	for i := 0; i < 3; i++ {
		attempts := 0
		err := retrier.Do(func() error {
			attempts++
			if attempts == 1 {
				return errors.New("once")
			}
			return nil
		})
		assert.NoError(t, err)
	}
}
