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

package schema

import (
	"github.com/noctarius/document-relationalizer/spi/document"
	"time"
)

// TypeTag is the primitive type of a single value.
type TypeTag string

const (
	TypeString   TypeTag = "str"
	TypeInt      TypeTag = "int"
	TypeFloat    TypeTag = "float"
	TypeBool     TypeTag = "bool"
	TypeDatetime TypeTag = "datetime"
	TypeNone     TypeTag = "none"

	// TypeArray and TypeObject are only produced for structural values
	// which were kept verbatim (ignore arrays / ignore objects). They
	// cannot be represented as column types.
	TypeArray  TypeTag = "array"
	TypeObject TypeTag = "object"
)

// IsColumnType returns true if the tag can be part of a column
// type descriptor.
func (t TypeTag) IsColumnType() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBool, TypeDatetime, TypeNone:
		return true
	}
	return false
}

func (t TypeTag) String() string {
	return string(t)
}

// Order matters, the first matching layout wins. When parsing, Go
// accepts fractional seconds after the seconds field even if the
// layout doesn't contain them.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
}

// Classify returns the type tag of the given value. Strings are
// recognized as datetime if they match one of the known timestamp
// layouts. Numbers are classified by representation, an integral
// float is still a float.
func Classify(
	value document.Value,
) TypeTag {

	switch value.Kind() {
	case document.KindNull:
		return TypeNone
	case document.KindBool:
		return TypeBool
	case document.KindInt:
		return TypeInt
	case document.KindFloat:
		return TypeFloat
	case document.KindTimestamp:
		return TypeDatetime
	case document.KindString:
		s, _ := value.AsString()
		if IsTimestamp(s) {
			return TypeDatetime
		}
		return TypeString
	case document.KindArray:
		return TypeArray
	case document.KindObject:
		return TypeObject
	}
	return TypeString
}

func IsTimestamp(
	value string,
) bool {

	// shortest layout is 19 characters
	if len(value) < 19 {
		return false
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
