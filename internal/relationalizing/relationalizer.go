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

package relationalizing

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
)

const (
	RelationIdColumn = "_rid_"
	IndexColumn      = "_index_"
	ValueColumn      = "_val_"

	pathDelimiter = "_"
)

var ErrMalformedDocument = errors.New("document is not an object")

// Router receives every flat record produced by the Relationalizer
// together with the name of its table.
type Router interface {
	Route(
		table string, record *document.Object,
	) error
}

type RouterFunc func(table string, record *document.Object) error

func (rf RouterFunc) Route(
	table string, record *document.Object,
) error {

	return rf(table, record)
}

type Options struct {
	// IgnoreArrays keeps arrays as they are instead of spinning
	// them off into child tables
	IgnoreArrays bool
	// IgnoreObjects keeps nested objects as they are instead of
	// inlining their fields
	IgnoreObjects bool
	// EmptyArrays defines how empty arrays are represented in the
	// parent record, defaults to config.MintEmptyArrays
	EmptyArrays config.EmptyArrayMode
	// IDGenerator mints relation ids, defaults to NewRelationId
	IDGenerator IDGenerator
}

// Relationalizer flattens nested documents into flat records. Nested
// object fields are inlined with their key path joined by underscores,
// arrays are replaced by a relation id and spun off into child tables.
type Relationalizer struct {
	options Options
	router  Router
	logger  *logging.Logger
}

func NewRelationalizer(
	router Router, options Options,
) (*Relationalizer, error) {

	logger, err := logging.NewLogger("Relationalizer")
	if err != nil {
		return nil, err
	}

	if options.IDGenerator == nil {
		options.IDGenerator = NewRelationId
	}
	if options.EmptyArrays == "" {
		options.EmptyArrays = config.MintEmptyArrays
	}
	if options.EmptyArrays != config.MintEmptyArrays && options.EmptyArrays != config.NullEmptyArrays {
		return nil, errors.Errorf("illegal empty array mode '%s'", options.EmptyArrays)
	}

	return &Relationalizer{
		options: options,
		router:  router,
		logger:  logger,
	}, nil
}

func NewRelationalizerWithConfig(
	c *config.Config, router Router,
) (*Relationalizer, error) {

	return NewRelationalizer(router, Options{
		IgnoreArrays:  config.GetOrDefault(c, config.PropertyRelationalizeIgnoreArrays, false),
		IgnoreObjects: config.GetOrDefault(c, config.PropertyRelationalizeIgnoreObjects, false),
		EmptyArrays:   config.GetOrDefault(c, config.PropertyRelationalizeEmptyArrays, config.MintEmptyArrays),
	})
}

// Relationalize pulls documents from the iterator until it is
// exhausted, the context is cancelled or an error occurs. Every
// document is fully routed before the next one is pulled.
func (r *Relationalizer) Relationalize(
	ctx context.Context, rootTable string, iterator document.Iterator,
) error {

	for count := 0; ; count++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		value, present, err := iterator()
		if err != nil {
			return err
		}
		if !present {
			r.logger.Verbosef("Relationalized %d documents into '%s'", count, rootTable)
			return nil
		}

		if err := r.RelationalizeDocument(rootTable, value); err != nil {
			return err
		}
	}
}

// RelationalizeDocument flattens a single document. Child records
// are routed as soon as they are complete, the root record is routed
// last.
func (r *Relationalizer) RelationalizeDocument(
	rootTable string, value document.Value,
) error {

	object, ok := value.AsObject()
	if !ok {
		return errors.Errorf("top-level value of type %s: %w", value.Kind(), ErrMalformedDocument)
	}

	record := document.NewObjectWithCapacity(object.Len())
	if err := r.flattenObject(rootTable, "", object, record); err != nil {
		return err
	}
	return r.router.Route(rootTable, record)
}

func (r *Relationalizer) flattenObject(
	table, prefix string, object *document.Object, record *document.Object,
) error {

	var err error
	object.Range(func(key string, value document.Value) bool {
		err = r.flattenValue(table, joinPath(prefix, key), value, record)
		return err == nil
	})
	return err
}

func (r *Relationalizer) flattenValue(
	table, column string, value document.Value, record *document.Object,
) error {

	switch value.Kind() {
	case document.KindObject:
		if r.options.IgnoreObjects {
			record.Set(column, value)
			return nil
		}
		object, _ := value.AsObject()
		return r.flattenObject(table, column, object, record)

	case document.KindArray:
		if r.options.IgnoreArrays {
			record.Set(column, value)
			return nil
		}
		elements, _ := value.AsArray()
		if len(elements) == 0 && r.options.EmptyArrays == config.NullEmptyArrays {
			record.Set(column, document.Null())
			return nil
		}

		relationId, err := r.options.IDGenerator()
		if err != nil {
			return err
		}
		record.Set(column, document.String(relationId))
		return r.spinOff(joinPath(table, column), relationId, elements)

	default:
		record.Set(column, value)
		return nil
	}
}

// spinOff routes one child record per array element. Object elements
// are flattened into the child record, any other element is placed
// into the value column. Nested arrays therefore create tables
// suffixed with the value column name.
func (r *Relationalizer) spinOff(
	childTable, relationId string, elements []document.Value,
) error {

	for index, element := range elements {
		child := document.NewObject()
		child.Set(IndexColumn, document.Int(int64(index)))
		child.Set(RelationIdColumn, document.String(relationId))

		if object, ok := element.AsObject(); ok {
			if err := r.flattenObject(childTable, "", object, child); err != nil {
				return err
			}
		} else if err := r.flattenValue(childTable, ValueColumn, element, child); err != nil {
			return err
		}

		// element fields must not override the relation columns
		child.Set(IndexColumn, document.Int(int64(index)))
		child.Set(RelationIdColumn, document.String(relationId))

		if err := r.router.Route(childTable, child); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(
	prefix, key string,
) string {

	if prefix == "" {
		return key
	}
	return prefix + pathDelimiter + key
}
