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

// Iterator yields one value at a time. It returns false once the
// underlying source is exhausted; an error ends the iteration.
type Iterator func() (Value, bool, error)

func SliceIterator(values ...Value) Iterator {
	index := 0
	return func() (Value, bool, error) {
		if index >= len(values) {
			return Value{}, false, nil
		}
		value := values[index]
		index++
		return value, true, nil
	}
}

// Collect drains the iterator into a slice.
func Collect(iterator Iterator) ([]Value, error) {
	result := make([]Value, 0)
	for {
		value, present, err := iterator()
		if err != nil {
			return nil, err
		}
		if !present {
			return result, nil
		}
		result = append(result, value)
	}
}

// ObjectsOf wraps objects into object values and returns an iterator
// over them.
func ObjectsOf(objects ...*Object) Iterator {
	values := make([]Value, 0, len(objects))
	for _, object := range objects {
		values = append(values, ObjectOf(object))
	}
	return SliceIterator(values...)
}
