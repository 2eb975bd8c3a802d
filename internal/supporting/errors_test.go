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

package supporting

import (
	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli"
	"testing"
)

func Test_AdaptError_Nil(
	t *testing.T,
) {

	assert.Nil(t, AdaptError(nil, ExitCodeProcessing))
	assert.Nil(t, AdaptErrorWithMessage(nil, "ignored", ExitCodeProcessing))
}

func Test_AdaptError_Exit_Code(
	t *testing.T,
) {

	exitError := AdaptError(errors.New("broken document"), ExitCodeMalformed)
	assert.Equal(t, ExitCodeMalformed, exitError.ExitCode())
	assert.Equal(t, "broken document", exitError.Error())
}

func Test_AdaptError_Keeps_Exit_Error(
	t *testing.T,
) {

	original := cli.NewExitError("already adapted", ExitCodeSetup)
	wrapped := errors.Wrap(original, 0)

	exitError := AdaptErrorWithMessage(wrapped, "failed", ExitCodeProcessing)
	assert.Equal(t, ExitCodeSetup, exitError.ExitCode())
	assert.Equal(t, "already adapted", exitError.Error())
}

func Test_AdaptErrorWithMessage(
	t *testing.T,
) {

	exitError := AdaptErrorWithMessage(errors.New("no such file"), "Failed to open source", ExitCodeSetup)
	assert.Equal(t, ExitCodeSetup, exitError.ExitCode())
	assert.Equal(t, "Failed to open source => err: no such file", exitError.Error())
}

func Test_ValueOrDefault(
	t *testing.T,
) {

	assert.Equal(t, "fallback", ValueOrDefault[string](nil, "fallback"))
	assert.Equal(t, "value", ValueOrDefault(AddrOf("value"), "fallback"))
}
