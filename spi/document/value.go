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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the closed set of value variants a document can carry.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTimestamp
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is an immutable tagged variant of a document value. The zero
// value is a null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	a    []Value
	o    *Object
}

func Null() Value {
	return Value{kind: KindNull}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func String(s string) Value {
	return Value{kind: KindString, s: s}
}

func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, t: t}
}

func ArrayOf(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: KindArray, a: values}
}

func ObjectOf(object *Object) Value {
	if object == nil {
		object = NewObject()
	}
	return Value{kind: KindObject, o: object}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsScalar returns true for every kind but arrays and objects.
func (v Value) IsScalar() bool {
	return v.kind != KindArray && v.kind != KindObject
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsTimestamp() (time.Time, bool) {
	return v.t, v.kind == KindTimestamp
}

// AsArray returns the array elements. The returned slice must not be
// modified.
func (v Value) AsArray() ([]Value, bool) {
	return v.a, v.kind == KindArray
}

func (v Value) AsObject() (*Object, bool) {
	return v.o, v.kind == KindObject
}

// Interface converts the value into plain Go values: nil, bool,
// int64, float64, string, time.Time, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t
	case KindArray:
		values := make([]any, 0, len(v.a))
		for _, element := range v.a {
			values = append(values, element.Interface())
		}
		return values
	case KindObject:
		return v.o.ToMap()
	}
	return nil
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	case KindString:
		return v.s == other.s
	case KindTimestamp:
		return v.t.Equal(other.t)
	case KindArray:
		if len(v.a) != len(other.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equal(other.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.o.Equal(other.o)
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return strconv.Quote(v.s)
	case KindTimestamp:
		return v.t.Format(time.RFC3339Nano)
	case KindArray:
		elements := make([]string, 0, len(v.a))
		for _, element := range v.a {
			elements = append(elements, element.String())
		}
		return "[" + strings.Join(elements, ", ") + "]"
	case KindObject:
		return v.o.String()
	}
	return "<invalid>"
}

// formatFloat renders a float the way JSON encoders do, but always
// keeps a fraction or an exponent so the value stays a float when it
// is read again.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
