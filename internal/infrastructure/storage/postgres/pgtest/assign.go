package pgtest

import (
	"fmt"
	"reflect"
)

// assign copies src into the pointer dst, converting between compatible kinds.
func assign(dst, src any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("pgtest: destination %T is not a pointer", dst)
	}
	target := dv.Elem()

	if src == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	sv := reflect.ValueOf(src)
	switch {
	case sv.Type().AssignableTo(target.Type()):
		target.Set(sv)
	case target.Kind() == reflect.Ptr && sv.Type().AssignableTo(target.Type().Elem()):
		p := reflect.New(target.Type().Elem())
		p.Elem().Set(sv)
		target.Set(p)
	case target.Kind() == reflect.Interface:
		target.Set(sv)
	case sv.Type().ConvertibleTo(target.Type()):
		target.Set(sv.Convert(target.Type()))
	default:
		return fmt.Errorf("pgtest: cannot scan %T into %T", src, dst)
	}
	return nil
}
