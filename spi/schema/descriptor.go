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
	"github.com/go-errors/errors"
	"strings"
)

const (
	compositePrefix    = "c-"
	compositeDelimiter = "-"
)

// Descriptor is the accumulated type information of a column. It
// keeps every distinct non-null tag in the order it was first seen.
// A descriptor without tags is "none", a single tag renders as the
// tag itself and multiple tags render as composite, "c-int-str".
type Descriptor struct {
	tags []TypeTag
}

func NewDescriptor(
	tags ...TypeTag,
) Descriptor {

	descriptor := Descriptor{}
	for _, tag := range tags {
		descriptor, _ = descriptor.With(tag)
	}
	return descriptor
}

func ParseDescriptor(
	text string,
) (Descriptor, error) {

	var candidates []string
	if strings.HasPrefix(text, compositePrefix) {
		candidates = strings.Split(text[len(compositePrefix):], compositeDelimiter)
	} else {
		candidates = []string{text}
	}

	descriptor := Descriptor{}
	for _, candidate := range candidates {
		tag := TypeTag(candidate)
		if !tag.IsColumnType() {
			return Descriptor{}, errors.Errorf("illegal type '%s' in descriptor '%s'", candidate, text)
		}
		descriptor, _ = descriptor.With(tag)
	}
	return descriptor, nil
}

// With returns a descriptor extended by the given tag and whether
// the descriptor changed. Null tags never change a descriptor.
func (d Descriptor) With(
	tag TypeTag,
) (Descriptor, bool) {

	if tag == TypeNone || d.Contains(tag) {
		return d, false
	}
	tags := make([]TypeTag, len(d.tags), len(d.tags)+1)
	copy(tags, d.tags)
	return Descriptor{tags: append(tags, tag)}, true
}

func (d Descriptor) Tags() []TypeTag {
	tags := make([]TypeTag, len(d.tags))
	copy(tags, d.tags)
	return tags
}

func (d Descriptor) Contains(
	tag TypeTag,
) bool {

	for _, candidate := range d.tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

func (d Descriptor) IsComposite() bool {
	return len(d.tags) > 1
}

func (d Descriptor) IsNone() bool {
	return len(d.tags) == 0
}

// Equal compares tags including their order.
func (d Descriptor) Equal(
	other Descriptor,
) bool {

	if len(d.tags) != len(other.tags) {
		return false
	}
	for i := range d.tags {
		if d.tags[i] != other.tags[i] {
			return false
		}
	}
	return true
}

func (d Descriptor) String() string {
	switch len(d.tags) {
	case 0:
		return string(TypeNone)
	case 1:
		return string(d.tags[0])
	}
	builder := strings.Builder{}
	builder.WriteString(compositePrefix)
	for i, tag := range d.tags {
		if i > 0 {
			builder.WriteString(compositeDelimiter)
		}
		builder.WriteString(string(tag))
	}
	return builder.String()
}

func (d Descriptor) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Descriptor) UnmarshalText(text []byte) error {
	descriptor, err := ParseDescriptor(string(text))
	if err != nil {
		return err
	}
	*d = descriptor
	return nil
}
