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

package filtering

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/document"
	"github.com/samber/lo"
	"sort"
)

// DocumentFilter decides if a top-level document is relationalized.
type DocumentFilter interface {
	Evaluate(
		rootTable string, value document.Value,
	) (bool, error)
}

type documentFilterFunc func(rootTable string, value document.Value) (bool, error)

func (dff documentFilterFunc) Evaluate(
	rootTable string, value document.Value,
) (bool, error) {

	return dff(rootTable, value)
}

// NewDocumentFilter compiles all filter definitions. A document
// passes if every filter accepts it. Conditions see the document
// as "doc" and the root table name as "table".
func NewDocumentFilter(
	filterDefinitions map[string]config.DocumentFilterConfig,
) (DocumentFilter, error) {

	if len(filterDefinitions) == 0 {
		return acceptAllFilter, nil
	}

	names := lo.Keys(filterDefinitions)
	sort.Strings(names)

	filters := make([]*documentFilter, 0, len(names))
	for _, name := range names {
		def := filterDefinitions[name]

		defaultValue := true
		if def.DefaultValue != nil {
			defaultValue = *def.DefaultValue
		}

		prog, err := expr.Compile(def.Condition)
		if err != nil {
			return nil, errors.WrapPrefix(err, "filter '"+name+"' failed to compile", 0)
		}

		filters = append(filters, &documentFilter{
			name:         name,
			defaultValue: defaultValue,
			condition:    def.Condition,
			prog:         prog,
			vm:           &vm.VM{},
		})
	}
	return compositeFilter(filters), nil
}

func NewDocumentFilterFromConfig(
	c *config.Config,
) (DocumentFilter, error) {

	return NewDocumentFilter(c.Filters)
}

var acceptAllFilter documentFilterFunc = func(_ string, _ document.Value) (bool, error) {
	return true, nil
}

var compositeFilter = func(filters []*documentFilter) DocumentFilter {
	return documentFilterFunc(func(rootTable string, value document.Value) (bool, error) {
		env := map[string]any{
			"doc":   value.Interface(),
			"table": rootTable,
		}
		for _, filter := range filters {
			success, err := filter.evaluate(env)
			if err != nil {
				return false, err
			}
			if !success {
				return false, nil
			}
		}
		return true, nil
	})
}

type documentFilter struct {
	name         string
	defaultValue bool
	condition    string
	prog         *vm.Program
	vm           *vm.VM
}

func (f *documentFilter) evaluate(
	env map[string]any,
) (bool, error) {

	result, err := f.vm.Run(f.prog, env)
	if err != nil {
		return false, errors.WrapPrefix(err, "filter '"+f.name+"' failed", 0)
	}

	r, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("result of filter «%s» isn't a boolean", f.condition)
	}

	if r {
		return f.defaultValue, nil
	}
	return !f.defaultValue, nil
}
