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
	"strconv"
	"strings"
)

// Object is an insertion ordered mapping of string keys to values.
// Setting an existing key overwrites the value but keeps the key at
// its first position.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return NewObjectWithCapacity(0)
}

func NewObjectWithCapacity(capacity int) *Object {
	return &Object{
		keys:   make([]string, 0, capacity),
		values: make(map[string]Value, capacity),
	}
}

func (o *Object) Set(key string, value Value) {
	if _, present := o.values[key]; !present {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Get(key string) (Value, bool) {
	value, present := o.values[key]
	return value, present
}

func (o *Object) Has(key string) bool {
	_, present := o.values[key]
	return present
}

func (o *Object) Delete(key string) bool {
	if _, present := o.values[key]; !present {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Range calls fn for every entry in insertion order until fn
// returns false.
func (o *Object) Range(fn func(key string, value Value) bool) {
	for _, key := range o.keys {
		if !fn(key, o.values[key]) {
			return
		}
	}
}

// Clone creates a shallow copy. Values are immutable, nested objects
// are shared.
func (o *Object) Clone() *Object {
	clone := NewObjectWithCapacity(len(o.keys))
	for _, key := range o.keys {
		clone.Set(key, o.values[key])
	}
	return clone
}

// Equal compares keys, key order and values.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.keys) != len(other.keys) {
		return false
	}
	for i, key := range o.keys {
		if other.keys[i] != key {
			return false
		}
		if !o.values[key].Equal(other.values[key]) {
			return false
		}
	}
	return true
}

func (o *Object) ToMap() map[string]any {
	result := make(map[string]any, len(o.keys))
	for _, key := range o.keys {
		result[key] = o.values[key].Interface()
	}
	return result
}

func (o *Object) String() string {
	builder := strings.Builder{}
	builder.WriteString("{")
	for i, key := range o.keys {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(strconv.Quote(key))
		builder.WriteString(": ")
		builder.WriteString(o.values[key].String())
	}
	builder.WriteString("}")
	return builder.String()
}
