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

package stdout

import (
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"github.com/noctarius/document-relationalizer/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func Test_StdoutSink(
	t *testing.T,
) {

	s, err := sink.NewSink(config.Stdout, &config.Config{})
	require.NoError(t, err)

	manager := sink.NewManager(s)
	assert.NoError(t, manager.Route("users", testsupport.Object("_id", 1)))
	assert.NoError(t, manager.Close())
}

func Test_StdoutSink_EncodingError(
	t *testing.T,
) {

	s, err := newStdoutSink(&config.Config{})
	require.NoError(t, err)

	output, err := s.NewOutput("t")
	require.NoError(t, err)
	assert.ErrorIs(t, output.Write(testsupport.Object("f", math.NaN())), document.ErrUnsupportedFloat)
}
