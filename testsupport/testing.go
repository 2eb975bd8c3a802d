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

package testsupport

import (
	"github.com/noctarius/document-relationalizer/spi/document"
	"os"
)

func CreateTempFile(
	pattern string,
) (string, error) {

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return f.Name(), nil
}

func WriteTempFile(
	pattern string, content []byte,
) (string, error) {

	path, err := CreateTempFile(pattern)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Object builds a document object from alternating keys and values.
// Plain Go values are converted the way the JSON decoder would.
func Object(
	kv ...any,
) *document.Object {

	object := document.NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		object.Set(kv[i].(string), ValueOf(kv[i+1]))
	}
	return object
}

func ValueOf(
	value any,
) document.Value {

	switch v := value.(type) {
	case nil:
		return document.Null()
	case document.Value:
		return v
	case *document.Object:
		return document.ObjectOf(v)
	case bool:
		return document.Bool(v)
	case int:
		return document.Int(int64(v))
	case int64:
		return document.Int(v)
	case float64:
		return document.Float(v)
	case string:
		return document.String(v)
	case []any:
		values := make([]document.Value, len(v))
		for i, element := range v {
			values[i] = ValueOf(element)
		}
		return document.ArrayOf(values...)
	}
	panic("unsupported test value")
}
