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

package document

import (
	"bytes"
	"github.com/go-errors/errors"
	"github.com/goccy/go-json"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrUnsupportedFloat = errors.New("NaN and Infinity are not representable in JSON")

// ParseJSON parses exactly one JSON value. Object key order and the
// difference between integer and floating point numbers are preserved.
func ParseJSON(
	data []byte,
) (Value, error) {

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := decodeValue(decoder)
	if err != nil {
		return Value{}, err
	}

	if _, err := decoder.Token(); err != io.EOF {
		if err != nil {
			return Value{}, errors.Wrap(err, 0)
		}
		return Value{}, errors.Errorf("unexpected content after JSON value")
	}
	return value, nil
}

// JSONDecoder streams values from JSON Lines (or any sequence of
// concatenated JSON values) or from a single top-level JSON array.
type JSONDecoder struct {
	decoder *json.Decoder
	started bool
	inArray bool
	done    bool
}

func NewJSONDecoder(
	reader io.Reader,
) *JSONDecoder {

	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	return &JSONDecoder{
		decoder: decoder,
	}
}

func (d *JSONDecoder) Next() (Value, bool, error) {
	if d.done {
		return Value{}, false, nil
	}

	if d.inArray {
		if !d.decoder.More() {
			d.done = true
			if _, err := d.decoder.Token(); err != nil {
				return Value{}, false, errors.Wrap(err, 0)
			}
			return Value{}, false, nil
		}
		value, err := decodeValue(d.decoder)
		if err != nil {
			d.done = true
			return Value{}, false, err
		}
		return value, true, nil
	}

	token, err := d.decoder.Token()
	if err == io.EOF {
		d.done = true
		return Value{}, false, nil
	} else if err != nil {
		d.done = true
		return Value{}, false, errors.Wrap(err, 0)
	}

	if !d.started {
		d.started = true
		if delim, ok := token.(json.Delim); ok && delim == '[' {
			d.inArray = true
			return d.Next()
		}
	}

	value, err := decodeToken(d.decoder, token)
	if err != nil {
		d.done = true
		return Value{}, false, err
	}
	return value, true, nil
}

func (d *JSONDecoder) Iterator() Iterator {
	return d.Next
}

func decodeValue(
	decoder *json.Decoder,
) (Value, error) {

	token, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, errors.Wrap(io.ErrUnexpectedEOF, 0)
		}
		return Value{}, errors.Wrap(err, 0)
	}
	return decodeToken(decoder, token)
}

func decodeToken(
	decoder *json.Decoder, token json.Token,
) (Value, error) {

	switch t := token.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return parseNumber(string(t))
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return Int(int64(t)), nil
		}
		return Float(t), nil
	case json.Delim:
		switch t {
		case '{':
			object := NewObject()
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					return Value{}, errors.Wrap(err, 0)
				}
				key, ok := keyToken.(string)
				if !ok {
					return Value{}, errors.Errorf("expected object key, got %v", keyToken)
				}
				value, err := decodeValue(decoder)
				if err != nil {
					return Value{}, err
				}
				object.Set(key, value)
			}
			if err := expectDelim(decoder, '}'); err != nil {
				return Value{}, err
			}
			return ObjectOf(object), nil

		case '[':
			values := make([]Value, 0)
			for decoder.More() {
				value, err := decodeValue(decoder)
				if err != nil {
					return Value{}, err
				}
				values = append(values, value)
			}
			if err := expectDelim(decoder, ']'); err != nil {
				return Value{}, err
			}
			return ArrayOf(values...), nil
		}
	}
	return Value{}, errors.Errorf("unexpected JSON token %v", token)
}

func expectDelim(
	decoder *json.Decoder, expected json.Delim,
) error {

	token, err := decoder.Token()
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if delim, ok := token.(json.Delim); !ok || delim != expected {
		return errors.Errorf("expected '%s', got %v", expected, token)
	}
	return nil
}

func parseNumber(
	number string,
) (Value, error) {

	if !strings.ContainsAny(number, ".eE") {
		i, err := strconv.ParseInt(number, 10, 64)
		if err == nil {
			return Int(i), nil
		}
		// integers beyond int64 keep their exact digits
		if errors.Is(err, strconv.ErrRange) {
			return String(number), nil
		}
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return Value{}, errors.Wrap(err, 0)
	}
	return Float(f), nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	buffer := &bytes.Buffer{}
	if err := encodeValue(buffer, v); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (o *Object) MarshalJSON() ([]byte, error) {
	buffer := &bytes.Buffer{}
	if err := encodeObject(buffer, o); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	value, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = value
	return nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	value, err := ParseJSON(data)
	if err != nil {
		return err
	}
	object, ok := value.AsObject()
	if !ok {
		return errors.Errorf("expected JSON object, got %s", value.Kind())
	}
	*o = *object
	return nil
}

func encodeValue(
	buffer *bytes.Buffer, value Value,
) error {

	switch value.kind {
	case KindNull:
		buffer.WriteString("null")
	case KindBool:
		buffer.WriteString(strconv.FormatBool(value.b))
	case KindInt:
		buffer.WriteString(strconv.FormatInt(value.i, 10))
	case KindFloat:
		if math.IsNaN(value.f) || math.IsInf(value.f, 0) {
			return errors.Wrap(ErrUnsupportedFloat, 0)
		}
		buffer.WriteString(formatFloat(value.f))
	case KindString:
		return encodeString(buffer, value.s)
	case KindTimestamp:
		return encodeString(buffer, value.t.Format(time.RFC3339Nano))
	case KindArray:
		buffer.WriteByte('[')
		for i, element := range value.a {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := encodeValue(buffer, element); err != nil {
				return err
			}
		}
		buffer.WriteByte(']')
	case KindObject:
		return encodeObject(buffer, value.o)
	default:
		return errors.Errorf("unknown value kind %s", value.kind)
	}
	return nil
}

func encodeObject(
	buffer *bytes.Buffer, object *Object,
) error {

	buffer.WriteByte('{')
	for i, key := range object.keys {
		if i > 0 {
			buffer.WriteByte(',')
		}
		if err := encodeString(buffer, key); err != nil {
			return err
		}
		buffer.WriteByte(':')
		if err := encodeValue(buffer, object.values[key]); err != nil {
			return err
		}
	}
	buffer.WriteByte('}')
	return nil
}

func encodeString(
	buffer *bytes.Buffer, s string,
) error {

	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return errors.Wrap(err, 0)
	}
	if n := buffer.Len(); n > 0 && buffer.Bytes()[n-1] == '\n' {
		buffer.Truncate(n - 1)
	}
	return nil
}
