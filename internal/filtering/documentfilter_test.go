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

package filtering

import (
	"github.com/noctarius/document-relationalizer/internal/supporting"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func Test_DocumentFilter_Evaluate(
	t *testing.T,
) {

	filter, err := NewDocumentFilter(map[string]config.DocumentFilterConfig{
		"active": {
			Condition: `doc.status == "active"`,
		},
	})
	require.NoError(t, err)

	success, err := filter.Evaluate("users", document.ObjectOf(testsupport.Object("status", "active")))
	require.NoError(t, err)
	assert.True(t, success)

	success, err = filter.Evaluate("users", document.ObjectOf(testsupport.Object("status", "deleted")))
	require.NoError(t, err)
	assert.False(t, success)
}

func Test_DocumentFilter_DefaultInverts(
	t *testing.T,
) {

	filter, err := NewDocumentFilter(map[string]config.DocumentFilterConfig{
		"drop_tests": {
			DefaultValue: supporting.AddrOf(false),
			Condition:    `doc.name startsWith "test"`,
		},
	})
	require.NoError(t, err)

	success, err := filter.Evaluate("users", document.ObjectOf(testsupport.Object("name", "test-user")))
	require.NoError(t, err)
	assert.False(t, success)

	success, err = filter.Evaluate("users", document.ObjectOf(testsupport.Object("name", "alice")))
	require.NoError(t, err)
	assert.True(t, success)
}

func Test_DocumentFilter_AllMustAccept(
	t *testing.T,
) {

	filter, err := NewDocumentFilter(map[string]config.DocumentFilterConfig{
		"adults": {Condition: `doc.age >= 18`},
		"table":  {Condition: `table == "users"`},
	})
	require.NoError(t, err)

	adult := document.ObjectOf(testsupport.Object("age", 42))
	success, err := filter.Evaluate("users", adult)
	require.NoError(t, err)
	assert.True(t, success)

	success, err = filter.Evaluate("orders", adult)
	require.NoError(t, err)
	assert.False(t, success)

	success, err = filter.Evaluate("users", document.ObjectOf(testsupport.Object("age", 7)))
	require.NoError(t, err)
	assert.False(t, success)
}

func Test_DocumentFilter_NoFilters(
	t *testing.T,
) {

	filter, err := NewDocumentFilter(nil)
	require.NoError(t, err)

	success, err := filter.Evaluate("users", document.Null())
	require.NoError(t, err)
	assert.True(t, success)
}

func Test_DocumentFilter_Errors(
	t *testing.T,
) {

	_, err := NewDocumentFilter(map[string]config.DocumentFilterConfig{
		"broken": {Condition: `doc.status ==`},
	})
	assert.ErrorContains(t, err, "filter 'broken' failed to compile")

	filter, err := NewDocumentFilter(map[string]config.DocumentFilterConfig{
		"value": {Condition: `doc.status`},
	})
	require.NoError(t, err)

	_, err = filter.Evaluate("users", document.ObjectOf(testsupport.Object("status", "active")))
	assert.ErrorContains(t, err, "isn't a boolean")
}
