package cache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// Param is a single named filter value of a list query.
type Param struct {
	Name  string
	Value any
}

// P is shorthand for building a Param.
func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// Params is an ordered set of filters. Order is significant: callers must build
// params in a stable shape for list keys to be stable.
type Params []Param

// With returns a copy of p with the param appended.
func (p Params) With(name string, value any) Params {
	out := make(Params, 0, len(p)+1)
	out = append(out, p...)
	return append(out, Param{Name: name, Value: value})
}

// Normalize drops undefined params (nil values and nil pointers) and keeps the
// remaining params in the order given.
func (p Params) Normalize() Params {
	out := make(Params, 0, len(p))
	for _, param := range p {
		if isUndefined(param.Value) {
			continue
		}
		out = append(out, param)
	}
	return out
}

// Values renders the normalized params as URL query values.
func (p Params) Values() url.Values {
	values := url.Values{}
	for _, param := range p.Normalize() {
		rv := reflect.Indirect(reflect.ValueOf(param.Value))
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				values.Add(param.Name, fmt.Sprintf("%v", rv.Index(i).Interface()))
			}
			continue
		}
		values.Add(param.Name, fmt.Sprintf("%v", rv.Interface()))
	}
	return values
}

func isUndefined(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// KeySerializer turns list params into the key token that identifies the list query.
// It is responsible for producing the same token for the same params.
type KeySerializer interface {
	SerializeParams(params Params) string
}

var defaultSerializer = NewDefaultKeySerializer()

// defaultKeySerializer implements KeySerializer using reflection-based serialization.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeParams renders params as name=value pairs in the given order.
// Names and string values are query-escaped so that no value can forge a
// separator of the rendering.
func (s *defaultKeySerializer) SerializeParams(params Params) string {
	if len(params) == 0 {
		return ""
	}

	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = url.QueryEscape(param.Name) + "=" + s.serializeValue(param.Value)
	}
	return strings.Join(parts, ",")
}

// serializeValue handles individual value serialization based on type.
func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch rt.Kind() {
	case reflect.Func:
		return fmt.Sprintf("func:%p", v)
	case reflect.Chan:
		return fmt.Sprintf("chan:%p", v)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return "[" + s.serializeElems(rv) + "]"
	case reflect.Array:
		return "[" + s.serializeElems(rv) + "]"
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.serializeMap(rv)
	case reflect.Struct:
		return s.serializeStruct(rv, rt)
	}

	if rt.Kind() == reflect.String {
		return url.QueryEscape(rv.String())
	}
	if isBasicKind(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return s.jsonFallback(v)
}

func (s *defaultKeySerializer) serializeElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts[i] = s.serializeValue(rv.Index(i).Interface())
	}
	return strings.Join(parts, "|")
}

// serializeMap sorts pairs by their rendered key; maps carry no order of their own.
func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, s.serializeValue(iter.Key().Interface())+":"+s.serializeValue(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, "|") + "}"
}

// serializeStruct renders exported fields in declaration order.
func (s *defaultKeySerializer) serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if isUndefined(fv.Interface()) {
			continue
		}
		parts = append(parts, field.Name+":"+s.serializeValue(fv.Interface()))
	}
	return "{" + strings.Join(parts, "|") + "}"
}

func isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

// jsonFallback provides JSON serialization as a last resort
func (s *defaultKeySerializer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "fallback:" + reflect.TypeOf(v).String()
	}
	return "json:" + string(data)
}
