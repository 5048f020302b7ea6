package monty

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/ShabbirHasan1/monty/internal/evaluator"
)

var (
	objectType    = reflect.TypeOf((*evaluator.Object)(nil)).Elem()
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

// Marshaller handles conversion between Go values and runtime values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a runtime Object. Structs (and pointers to
// them) become mutable records named after the Go type; slices and arrays
// become lists; maps become dicts.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NONE, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}
	return m.toValue(reflect.ValueOf(val))
}

func (m *Marshaller) toValue(v reflect.Value) (evaluator.Object, error) {
	if !v.IsValid() {
		return evaluator.NONE, nil
	}
	if v.CanInterface() {
		if obj, ok := v.Interface().(evaluator.Object); ok {
			return obj, nil
		}
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return evaluator.NewInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%s value %d overflows int", v.Type(), u)
		}
		return evaluator.NewInt(int64(u)), nil
	case reflect.Bool:
		return evaluator.NewBool(v.Bool()), nil
	case reflect.String:
		return evaluator.NewString(v.String()), nil
	case reflect.Slice:
		if v.IsNil() {
			return evaluator.NONE, nil
		}
		return m.sliceToList(v)
	case reflect.Array:
		return m.sliceToList(v)
	case reflect.Map:
		if v.IsNil() {
			return evaluator.NONE, nil
		}
		return m.mapToDict(v)
	case reflect.Struct:
		return m.structToRecord(v)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return evaluator.NONE, nil
		}
		return m.toValue(v.Elem())
	}
	return nil, fmt.Errorf("cannot convert Go %s to a value", v.Type())
}

func (m *Marshaller) sliceToList(v reflect.Value) (*evaluator.List, error) {
	list := evaluator.NewList()
	for i := 0; i < v.Len(); i++ {
		val, err := m.toValue(v.Index(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		list.Append(val)
	}
	return list, nil
}

func (m *Marshaller) mapToDict(v reflect.Value) (*evaluator.Dict, error) {
	// Go map iteration is random; sort the keys so the dict order is stable.
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	result := evaluator.NewDict()
	for _, k := range keys {
		key, err := m.toValue(k)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := m.toValue(v.MapIndex(k))
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		if err := result.Put(key, val); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (m *Marshaller) structToRecord(v reflect.Value) (*evaluator.Record, error) {
	fields := make(map[string]evaluator.Object)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // Skip unexported fields
			continue
		}
		val, err := m.toValue(v.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fields[field.Name] = val
	}
	name := t.Name()
	if name == "" {
		name = "struct"
	}
	return evaluator.NewRecord(name, fields), nil
}

// FromValue converts a runtime Object to a Go value.
// targetType is optional; if provided, the result is converted to it.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	if targetType == nil || targetType == interfaceType {
		return m.fromValue(obj)
	}
	if targetType == objectType || reflect.TypeOf(obj).AssignableTo(targetType) {
		return obj, nil
	}

	rv, err := m.convert(obj, targetType)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

// fromValue picks the natural Go representation of obj.
func (m *Marshaller) fromValue(obj evaluator.Object) (interface{}, error) {
	switch o := obj.(type) {
	case *evaluator.None:
		return nil, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.Integer:
		return int(o.Value), nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.List:
		return m.elementsToSlice(o.ToSlice())
	case *evaluator.Tuple:
		return m.elementsToSlice(o.Elements)
	case *evaluator.Dict:
		result := make(map[interface{}]interface{}, o.Len())
		for _, item := range o.Items() {
			key, err := m.fromValue(item.Key)
			if err != nil {
				return nil, fmt.Errorf("dict key: %w", err)
			}
			if key != nil && !reflect.TypeOf(key).Comparable() {
				return nil, fmt.Errorf("dict key %s has no comparable Go form", item.Key.Inspect())
			}
			val, err := m.fromValue(item.Value)
			if err != nil {
				return nil, fmt.Errorf("dict value: %w", err)
			}
			result[key] = val
		}
		return result, nil
	case *evaluator.Record:
		result := make(map[string]interface{}, len(o.Fields))
		for _, f := range o.Fields {
			val, err := m.fromValue(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Key, err)
			}
			result[f.Key] = val
		}
		return result, nil
	}
	// Slices, exceptions and callables have no plain Go form.
	return obj, nil
}

func (m *Marshaller) elementsToSlice(elements []evaluator.Object) ([]interface{}, error) {
	result := make([]interface{}, len(elements))
	for i, el := range elements {
		val, err := m.fromValue(el)
		if err != nil {
			return nil, err
		}
		result[i] = val
	}
	return result, nil
}

// convert builds a value of type t from obj.
func (m *Marshaller) convert(obj evaluator.Object, t reflect.Type) (reflect.Value, error) {
	if t == interfaceType {
		val, err := m.fromValue(obj)
		if err != nil || val == nil {
			return reflect.Zero(t), err
		}
		return reflect.ValueOf(val), nil
	}
	if t == objectType {
		return reflect.ValueOf(&obj).Elem(), nil
	}
	if _, ok := obj.(*evaluator.None); ok {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, mismatch(obj, t)
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := obj.(*evaluator.Integer)
		if !ok {
			return reflect.Value{}, mismatch(obj, t)
		}
		rv := reflect.New(t).Elem()
		if rv.CanInt() {
			if rv.OverflowInt(i.Value) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i.Value, t)
			}
			rv.SetInt(i.Value)
		} else {
			if i.Value < 0 || rv.OverflowUint(uint64(i.Value)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i.Value, t)
			}
			rv.SetUint(uint64(i.Value))
		}
		return rv, nil
	case reflect.Bool:
		b, ok := obj.(*evaluator.Boolean)
		if !ok {
			return reflect.Value{}, mismatch(obj, t)
		}
		return reflect.ValueOf(b.Value).Convert(t), nil
	case reflect.String:
		s, ok := obj.(*evaluator.String)
		if !ok {
			return reflect.Value{}, mismatch(obj, t)
		}
		return reflect.ValueOf(s.Value).Convert(t), nil
	case reflect.Slice:
		var elements []evaluator.Object
		switch o := obj.(type) {
		case *evaluator.List:
			elements = o.ToSlice()
		case *evaluator.Tuple:
			elements = o.Elements
		default:
			return reflect.Value{}, mismatch(obj, t)
		}
		rv := reflect.MakeSlice(t, len(elements), len(elements))
		for i, el := range elements {
			ev, err := m.convert(el, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			rv.Index(i).Set(ev)
		}
		return rv, nil
	case reflect.Map:
		d, ok := obj.(*evaluator.Dict)
		if !ok {
			return reflect.Value{}, mismatch(obj, t)
		}
		rv := reflect.MakeMapWithSize(t, d.Len())
		for _, item := range d.Items() {
			kv, err := m.convert(item.Key, t.Key())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("dict key: %w", err)
			}
			vv, err := m.convert(item.Value, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("dict value: %w", err)
			}
			rv.SetMapIndex(kv, vv)
		}
		return rv, nil
	case reflect.Struct:
		r, ok := obj.(*evaluator.Record)
		if !ok {
			return reflect.Value{}, mismatch(obj, t)
		}
		rv := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" {
				continue
			}
			val := r.Get(field.Name)
			if val == nil {
				continue
			}
			fv, err := m.convert(val, field.Type)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("field %s: %w", field.Name, err)
			}
			rv.Field(i).Set(fv)
		}
		return rv, nil
	case reflect.Ptr:
		ev, err := m.convert(obj, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(ev)
		return ptr, nil
	}

	if rv := reflect.ValueOf(obj); rv.Type().AssignableTo(t) {
		return rv, nil
	}
	return reflect.Value{}, mismatch(obj, t)
}

func mismatch(obj evaluator.Object, t reflect.Type) error {
	return fmt.Errorf("cannot convert %s to %s", obj.TypeName(), t)
}
