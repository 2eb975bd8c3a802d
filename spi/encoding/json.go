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

package encoding

import (
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/spi/document"
)

// KeyColumns are the columns tried, in order, to find the message
// key of a record.
var KeyColumns = []string{"_rid_", "_id"}

type JsonEncoder struct {
	lineDelimited bool
}

func NewJsonEncoder() *JsonEncoder {
	return &JsonEncoder{}
}

// NewJsonLinesEncoder creates an encoder terminating every
// record with a newline.
func NewJsonLinesEncoder() *JsonEncoder {
	return &JsonEncoder{
		lineDelimited: true,
	}
}

func (j *JsonEncoder) Marshal(
	record *document.Object,
) ([]byte, error) {

	data, err := record.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if j.lineDelimited {
		data = append(data, '\n')
	}
	return data, nil
}

type JsonDecoder struct{}

func NewJsonDecoder() *JsonDecoder {
	return &JsonDecoder{}
}

func (j *JsonDecoder) Unmarshal(
	data []byte,
) (*document.Object, error) {

	value, err := document.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	object, ok := value.AsObject()
	if !ok {
		return nil, errors.Errorf("record isn't a JSON object but %s", value.Kind())
	}
	return object, nil
}

// RecordKey returns the value of the first present key column,
// rendered as a string, or nil if the record has none.
func RecordKey(
	record *document.Object,
) []byte {

	for _, column := range KeyColumns {
		if value, present := record.Get(column); present && !value.IsNull() {
			if s, ok := value.AsString(); ok {
				return []byte(s)
			}
			return []byte(value.String())
		}
	}
	return nil
}
