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
	"encoding/base64"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/hashicorp/go-uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"sort"
	"time"
)

const bsonUUIDSubtype byte = 0x04

// FromRaw converts a raw BSON document into an object value,
// keeping the element order of the document.
func FromRaw(
	raw bson.Raw,
) (Value, error) {

	elements, err := raw.Elements()
	if err != nil {
		return Value{}, errors.Wrap(err, 0)
	}

	object := NewObjectWithCapacity(len(elements))
	for _, element := range elements {
		value, err := FromRawValue(element.Value())
		if err != nil {
			return Value{}, err
		}
		object.Set(element.Key(), value)
	}
	return ObjectOf(object), nil
}

// FromRawValue converts a single raw BSON value. ObjectIDs become
// their hex representation, dates and timestamps become timestamps,
// decimals, binaries, regular expressions and code become strings.
func FromRawValue(
	value bson.RawValue,
) (Value, error) {

	switch value.Type {
	case bson.TypeNull, bson.TypeUndefined:
		return Null(), nil
	case bson.TypeBoolean:
		return Bool(value.Boolean()), nil
	case bson.TypeInt32:
		return Int(int64(value.Int32())), nil
	case bson.TypeInt64:
		return Int(value.Int64()), nil
	case bson.TypeDouble:
		return Float(value.Double()), nil
	case bson.TypeString:
		return String(value.StringValue()), nil
	case bson.TypeSymbol:
		return String(value.Symbol()), nil
	case bson.TypeJavaScript:
		return String(value.JavaScript()), nil
	case bson.TypeCodeWithScope:
		code, _ := value.CodeWithScope()
		return String(code), nil
	case bson.TypeObjectID:
		return String(value.ObjectID().Hex()), nil
	case bson.TypeDateTime:
		return Timestamp(time.UnixMilli(value.DateTime()).UTC()), nil
	case bson.TypeTimestamp:
		t, _ := value.Timestamp()
		return Timestamp(time.Unix(int64(t), 0).UTC()), nil
	case bson.TypeDecimal128:
		return String(value.Decimal128().String()), nil
	case bson.TypeBinary:
		subtype, data := value.Binary()
		return binaryValue(subtype, data), nil
	case bson.TypeRegex:
		pattern, options := value.Regex()
		return String(fmt.Sprintf("/%s/%s", pattern, options)), nil
	case bson.TypeDBPointer:
		namespace, pointer := value.DBPointer()
		return String(fmt.Sprintf("%s.%s", namespace, pointer.Hex())), nil
	case bson.TypeMinKey:
		return String("$minKey"), nil
	case bson.TypeMaxKey:
		return String("$maxKey"), nil
	case bson.TypeEmbeddedDocument:
		return FromRaw(value.Document())
	case bson.TypeArray:
		rawValues, err := value.Array().Values()
		if err != nil {
			return Value{}, errors.Wrap(err, 0)
		}
		values := make([]Value, 0, len(rawValues))
		for _, rawValue := range rawValues {
			v, err := FromRawValue(rawValue)
			if err != nil {
				return Value{}, err
			}
			values = append(values, v)
		}
		return ArrayOf(values...), nil
	}
	return Value{}, errors.Errorf("unsupported BSON type %s", value.Type)
}

// FromBSON converts a decoded BSON document (bson.D) into an object
// value.
func FromBSON(
	document bson.D,
) (Value, error) {

	return FromBSONValue(document)
}

// FromBSONValue converts decoded BSON values (as produced by the
// mongo driver when decoding into interface values) and plain Go
// values.
func FromBSONValue(
	value any,
) (Value, error) {

	switch v := value.(type) {
	case nil, bson.Null, bson.Undefined:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case bson.Symbol:
		return String(string(v)), nil
	case bson.JavaScript:
		return String(string(v)), nil
	case bson.ObjectID:
		return String(v.Hex()), nil
	case bson.DateTime:
		return Timestamp(v.Time().UTC()), nil
	case time.Time:
		return Timestamp(v), nil
	case bson.Timestamp:
		return Timestamp(time.Unix(int64(v.T), 0).UTC()), nil
	case bson.Decimal128:
		return String(v.String()), nil
	case bson.Binary:
		return binaryValue(v.Subtype, v.Data), nil
	case []byte:
		return binaryValue(0, v), nil
	case bson.Regex:
		return String(fmt.Sprintf("/%s/%s", v.Pattern, v.Options)), nil
	case bson.MinKey:
		return String("$minKey"), nil
	case bson.MaxKey:
		return String("$maxKey"), nil
	case bson.D:
		object := NewObjectWithCapacity(len(v))
		for _, element := range v {
			converted, err := FromBSONValue(element.Value)
			if err != nil {
				return Value{}, err
			}
			object.Set(element.Key, converted)
		}
		return ObjectOf(object), nil
	case bson.M:
		return fromMap(v)
	case map[string]any:
		return fromMap(v)
	case bson.A:
		return fromSlice(v)
	case []any:
		return fromSlice(v)
	case bson.Raw:
		return FromRaw(v)
	}
	return Value{}, errors.Errorf("unsupported BSON value of type %T", value)
}

// ParseExtendedJSON parses a MongoDB extended JSON document, in
// canonical or relaxed mode.
func ParseExtendedJSON(
	data []byte,
) (Value, error) {

	var document bson.D
	if err := bson.UnmarshalExtJSON(data, false, &document); err != nil {
		return Value{}, errors.Wrap(err, 0)
	}
	return FromBSON(document)
}

func fromMap(
	m map[string]any,
) (Value, error) {

	// maps carry no order, keys are sorted to keep the result stable
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	object := NewObjectWithCapacity(len(keys))
	for _, key := range keys {
		converted, err := FromBSONValue(m[key])
		if err != nil {
			return Value{}, err
		}
		object.Set(key, converted)
	}
	return ObjectOf(object), nil
}

func fromSlice(
	s []any,
) (Value, error) {

	values := make([]Value, 0, len(s))
	for _, element := range s {
		converted, err := FromBSONValue(element)
		if err != nil {
			return Value{}, err
		}
		values = append(values, converted)
	}
	return ArrayOf(values...), nil
}

func binaryValue(
	subtype byte, data []byte,
) Value {

	if subtype == bsonUUIDSubtype && len(data) == 16 {
		if formatted, err := uuid.FormatUUID(data); err == nil {
			return String(formatted)
		}
	}
	return String(base64.StdEncoding.EncodeToString(data))
}
