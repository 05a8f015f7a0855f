package view

import (
	"math"
	"reflect"
)

// Delegate is the view-side property bag consulted when the model has no
// value for a property. Subviews share their parent's delegate.
type Delegate map[string]any

// Method is a computed delegate property, called with the delegate itself.
type Method func(d Delegate) any

var delegateType = reflect.TypeOf(Delegate(nil))

// resolve looks prop up on the delegate. Functions are called; plain values
// count only when truthy, so a delegate entry of 0, "" or false reads as
// undefined.
func (d Delegate) resolve(prop string) (any, bool) {
	entry, ok := d[prop]
	if !ok {
		return nil, false
	}
	switch fn := entry.(type) {
	case Method:
		return fn(d), true
	case func(Delegate) any:
		return fn(d), true
	case func() any:
		return fn(), true
	}
	if rv := reflect.ValueOf(entry); rv.Kind() == reflect.Func {
		return d.call(rv)
	}
	if falsy(entry) {
		return nil, false
	}
	return entry, true
}

// call invokes fn when it takes no arguments or a single Delegate and
// returns its first result. Any other signature reads as undefined.
func (d Delegate) call(fn reflect.Value) (any, bool) {
	if fn.IsNil() {
		return nil, false
	}
	t := fn.Type()
	if t.NumOut() == 0 || t.IsVariadic() {
		return nil, false
	}
	var out []reflect.Value
	switch {
	case t.NumIn() == 0:
		out = fn.Call(nil)
	case t.NumIn() == 1 && t.In(0) == delegateType:
		out = fn.Call([]reflect.Value{reflect.ValueOf(d)})
	default:
		return nil, false
	}
	return out[0].Interface(), true
}

func falsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
