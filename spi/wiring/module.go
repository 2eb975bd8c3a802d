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

package wiring

import (
	"github.com/go-errors/errors"
	"github.com/samber/do"
	"github.com/samber/lo"
	"reflect"
)

var errorReflectiveType = reflect.TypeOf((*error)(nil)).Elem()

// PostConstructable services are called right after
// their constructor returned successfully
type PostConstructable interface {
	PostConstruct() error
}

type ProvideOption interface {
	applyProvideOption(info *binding)
}

// ForceInitialization creates the service when the container is
// built instead of on first use
func ForceInitialization() ProvideOption {
	return forceInitializationProvideOption{}
}

type forceInitializationProvideOption struct {
}

func (f forceInitializationProvideOption) applyProvideOption(info *binding) {
	info.forceInit = true
}

// Module is a named set of service constructors. Constructor
// parameters are resolved by their type from the container, a
// constructor may return an error as its second return value.
type Module interface {
	Provide(constructor any, options ...ProvideOption)
	Invoke(call any)
	register(injector *do.Injector)
	initialize(injector *do.Injector) error
}

func DefineModule(
	name string, definer func(module Module),
) Module {

	module := &module{
		name: name,
	}
	definer(module)
	return module
}

type module struct {
	name     string
	bindings []*binding
}

// register makes the providers known to the injector, a provider of
// a later module overrides one of an earlier module for the same type
func (m *module) register(
	injector *do.Injector,
) {

	for _, binding := range m.bindings {
		if binding.invoker != nil {
			continue
		}
		if lo.Contains(injector.ListProvidedServices(), binding.serviceName) {
			do.OverrideNamed(injector, binding.serviceName, binding.provider)
		} else {
			do.ProvideNamed(injector, binding.serviceName, binding.provider)
		}
	}
}

func (m *module) initialize(
	injector *do.Injector,
) error {

	for _, binding := range m.bindings {
		if binding.invoker != nil {
			if err := binding.invoker(injector); err != nil {
				return errors.WrapPrefix(err, "module "+m.name, 0)
			}
		}
		if binding.forceInit {
			if _, err := do.InvokeNamed[any](injector, binding.serviceName); err != nil {
				return errors.WrapPrefix(err, "module "+m.name, 0)
			}
		}
	}
	return nil
}

func (m *module) Provide(
	constructor any, options ...ProvideOption,
) {

	t, v := functionOf(constructor)
	if t.NumOut() == 0 || t.NumOut() > 2 {
		panic(errors.Errorf("Type %s must have 1 or 2 return values, but has %d", t.String(), t.NumOut()))
	}
	mayReturnError := t.NumOut() == 2
	if mayReturnError && !t.Out(1).ConvertibleTo(errorReflectiveType) {
		panic(errors.Errorf("Type %s has two return values, but the second one isn't an error", t.String()))
	}

	b := &binding{
		serviceName: t.Out(0).String(),
	}
	b.provider = func(injector *do.Injector) (any, error) {
		results, err := call(injector, t, v)
		if err != nil {
			return nil, err
		}
		if mayReturnError && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}

		value := results[0].Interface()
		if pc, ok := value.(PostConstructable); ok {
			if err := pc.PostConstruct(); err != nil {
				return nil, err
			}
		}
		return value, nil
	}

	for _, option := range options {
		option.applyProvideOption(b)
	}
	m.bindings = append(m.bindings, b)
}

func (m *module) Invoke(
	fn any,
) {

	t, v := functionOf(fn)
	if t.NumOut() > 1 || (t.NumOut() == 1 && !t.Out(0).ConvertibleTo(errorReflectiveType)) {
		panic(errors.Errorf("Type %s may only return an error", t.String()))
	}

	m.bindings = append(m.bindings, &binding{
		serviceName: t.String(),
		invoker: func(injector *do.Injector) error {
			results, err := call(injector, t, v)
			if err != nil {
				return err
			}
			if len(results) == 1 && !results[0].IsNil() {
				return results[0].Interface().(error)
			}
			return nil
		},
	})
}

func functionOf(
	fn any,
) (reflect.Type, reflect.Value) {

	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		panic(errors.Errorf("Type %v is not a function", t))
	}
	return t, reflect.ValueOf(fn)
}

// call resolves all parameters of the function from the injector
// and calls it
func call(
	injector *do.Injector, t reflect.Type, v reflect.Value,
) ([]reflect.Value, error) {

	params := make([]reflect.Value, 0, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		paramType := t.In(i)
		param, err := do.InvokeNamed[any](injector, paramType.String())
		if err != nil {
			return nil, err
		}
		if param == nil {
			params = append(params, reflect.Zero(paramType))
		} else {
			params = append(params, reflect.ValueOf(param))
		}
	}
	return v.Call(params), nil
}

type binding struct {
	serviceName string
	forceInit   bool
	provider    func(injector *do.Injector) (any, error)
	invoker     func(injector *do.Injector) error
}
