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

package version

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func Test_ParsePostgresVersion(
	t *testing.T,
) {

	tests := []struct {
		input    string
		expected PostgresVersion
		rendered string
	}{
		{"16.2 (Debian 16.2-1.pgdg120+2)", 160002, "16.2"},
		{"9.6.24", 90006, "9.6"},
		{"13.14", 130014, "13.14"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			v, err := ParsePostgresVersion(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
			assert.Equal(t, test.rendered, v.String())
		})
	}

	_, err := ParsePostgresVersion("devel")
	assert.Error(t, err)
}

func Test_PostgresVersion_Compare(
	t *testing.T,
) {

	assert.Equal(t, -1, PostgresVersion(90003).Compare(PG_MIN_VERSION))
	assert.Equal(t, 0, PostgresVersion(90004).Compare(PG_MIN_VERSION))
	assert.Equal(t, 1, PostgresVersion(160002).Compare(PG_MIN_VERSION))
}
