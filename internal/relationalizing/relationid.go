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

package relationalizing

import (
	"github.com/go-errors/errors"
	"github.com/hashicorp/go-uuid"
	"strings"
)

const relationIdPrefix = "R_"

// IDGenerator mints a new, globally unique relation id.
type IDGenerator func() (string, error)

// NewRelationId creates a relation id in the form of R_ followed by
// 32 lowercase hex characters of a random UUID.
func NewRelationId() (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", errors.Wrap(err, 0)
	}
	return relationIdPrefix + strings.ReplaceAll(id, "-", ""), nil
}

// IsRelationId returns true if the value looks like a relation id.
func IsRelationId(
	value string,
) bool {

	if len(value) != len(relationIdPrefix)+32 || !strings.HasPrefix(value, relationIdPrefix) {
		return false
	}
	for _, c := range value[len(relationIdPrefix):] {
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
