package fake

import "reflect"

// Override is a post-generation hook bound to exactly one type.
// Build one with For.
type Override interface {
	target() reflect.Type
	apply(f *Faker, v any) error
}

type override[T any] struct {
	fn func(*Faker, *T) error
}

// For binds fn as the override for *T. The Faker passed to fn is the one
// generating the value, so fn may call Generate to build related values.
func For[T any](fn func(f *Faker, v *T) error) Override {
	return override[T]{fn: fn}
}

func (o override[T]) target() reflect.Type { return reflect.TypeFor[T]() }

// apply is only reached through the override table, which is keyed by T.
func (o override[T]) apply(f *Faker, v any) error {
	return o.fn(f, v.(*T))
}
