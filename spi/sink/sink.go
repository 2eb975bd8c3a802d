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
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
)

type Provider = func(config *config.Config) (Sink, error)

// Output is a writable destination for the records of a single table.
type Output interface {
	Write(
		record *document.Object,
	) error
	Close() error
}

// OutputFactory creates the Output for a table name.
type OutputFactory interface {
	NewOutput(
		table string,
	) (Output, error)
}

type OutputFactoryFunc func(table string) (Output, error)

func (off OutputFactoryFunc) NewOutput(
	table string,
) (Output, error) {

	return off(table)
}

// Sink is an output destination, which creates one Output per table.
type Sink interface {
	OutputFactory
	Start() error
	Stop() error
}

// Replayer is implemented by sinks which can read back the
// records written to a table, in write order.
type Replayer interface {
	Replay(
		table string, fn func(record *document.Object) error,
	) error
}

// WriteObserver is notified once per record actually written
// to an Output.
type WriteObserver interface {
	RecordWritten(
		table string, record *document.Object,
	) error
}

type WriteObserverFunc func(table string, record *document.Object) error

func (wof WriteObserverFunc) RecordWritten(
	table string, record *document.Object,
) error {

	return wof(table, record)
}

type OutputFunc func(record *document.Object) error

func (of OutputFunc) Write(
	record *document.Object,
) error {

	return of(record)
}

func (of OutputFunc) Close() error {
	return nil
}
