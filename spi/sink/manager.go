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

package sink

import (
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/spi/document"
	"sync"
)

var ErrManagerClosed = errors.New("output manager already closed")

// Manager routes records to per-table outputs. Outputs are created
// lazily on the first record of a table and at most once per table.
// After every successful write the registered observers are called.
type Manager struct {
	mutex     sync.Mutex
	factory   OutputFactory
	outputs   map[string]Output
	tables    []string
	observers []WriteObserver
	closed    bool
}

func NewManager(
	factory OutputFactory, observers ...WriteObserver,
) *Manager {

	return &Manager{
		factory:   factory,
		outputs:   make(map[string]Output),
		tables:    make([]string, 0),
		observers: observers,
	}
}

func (m *Manager) AddObserver(
	observer WriteObserver,
) {

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.observers = append(m.observers, observer)
}

func (m *Manager) Route(
	table string, record *document.Object,
) error {

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return errors.Wrap(ErrManagerClosed, 0)
	}

	output, err := m.output(table)
	if err != nil {
		return err
	}

	if err := output.Write(record); err != nil {
		return err
	}

	for _, observer := range m.observers {
		if err := observer.RecordWritten(table, record); err != nil {
			return err
		}
	}
	return nil
}

// Tables returns the table names in order of discovery.
func (m *Manager) Tables() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	tables := make([]string, len(m.tables))
	copy(tables, m.tables)
	return tables
}

// Close closes all outputs. Every output is closed even if
// closing a previous one failed, the first error is returned.
// Calling Close more than once is a no-op.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	for _, table := range m.tables {
		if err := m.outputs[table].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Manager) output(
	table string,
) (Output, error) {

	if output, present := m.outputs[table]; present {
		return output, nil
	}

	output, err := m.factory.NewOutput(table)
	if err != nil {
		return nil, err
	}

	m.outputs[table] = output
	m.tables = append(m.tables, table)
	return output, nil
}
