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

package stats

import (
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/segmentio/stats/v4"
)

// Reporter counts the processed documents and the records written
// per table. It is registered as a sink.WriteObserver.
type Reporter struct {
	statsEnabled bool
	engine       *stats.Engine
}

func (r *Reporter) DocumentRead() {
	if r.statsEnabled {
		r.engine.Incr("documents.read")
	}
}

func (r *Reporter) DocumentFiltered() {
	if r.statsEnabled {
		r.engine.Incr("documents.filtered")
	}
}

func (r *Reporter) ColumnsDropped(
	reason string, count int,
) {

	if r.statsEnabled && count > 0 {
		r.engine.Add("columns.dropped", count, stats.T("reason", reason))
	}
}

func (r *Reporter) RecordWritten(
	table string, _ *document.Object,
) error {

	if r.statsEnabled {
		r.engine.Incr("records.written", stats.T("table", table))
	}
	return nil
}
