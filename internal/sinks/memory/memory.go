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

package memory

import (
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/noctarius/document-relationalizer/spi/sink"
	"sync"
)

func init() {
	sink.RegisterSink(config.Memory, func(_ *config.Config) (sink.Sink, error) {
		return NewMemorySink(), nil
	})
}

// MemorySink keeps all written records per table in memory.
type MemorySink struct {
	mutex  sync.RWMutex
	tables map[string][]*document.Object
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		tables: make(map[string][]*document.Object),
	}
}

func (m *MemorySink) Start() error {
	return nil
}

func (m *MemorySink) Stop() error {
	return nil
}

func (m *MemorySink) NewOutput(
	table string,
) (sink.Output, error) {

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, present := m.tables[table]; !present {
		m.tables[table] = make([]*document.Object, 0)
	}
	return &memoryOutput{
		sink:  m,
		table: table,
	}, nil
}

func (m *MemorySink) Replay(
	table string, fn func(record *document.Object) error,
) error {

	m.mutex.RLock()
	records, present := m.tables[table]
	m.mutex.RUnlock()
	if !present {
		return errors.Errorf("table '%s' was never written", table)
	}

	for _, record := range records {
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the records of the table in write order.
func (m *MemorySink) Records(
	table string,
) []*document.Object {

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	records := m.tables[table]
	result := make([]*document.Object, len(records))
	copy(result, records)
	return result
}

func (m *MemorySink) Tables() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	tables := make([]string, 0, len(m.tables))
	for table := range m.tables {
		tables = append(tables, table)
	}
	return tables
}

type memoryOutput struct {
	sink   *MemorySink
	table  string
	closed bool
}

func (o *memoryOutput) Write(
	record *document.Object,
) error {

	if o.closed {
		return errors.Errorf("output for table '%s' is closed", o.table)
	}

	o.sink.mutex.Lock()
	defer o.sink.mutex.Unlock()
	// records are stored as copies, callers may reuse their objects
	o.sink.tables[o.table] = append(o.sink.tables[o.table], record.Clone())
	return nil
}

func (o *memoryOutput) Close() error {
	o.closed = true
	return nil
}
