package fake

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/go-faker/faker/v4/pkg/options"
	"github.com/pkg/errors"
)

// Faker generates values according to a Config.
type Faker struct {
	observer  Observer
	location  *time.Location
	overrides map[reflect.Type]Override
	options   []options.OptionFunc
	depth     uint
}

// New validates cfg and builds the generator options once.
func New(cfg Config) (*Faker, error) {
	f := &Faker{
		observer:  cfg.Observer,
		location:  zone(cfg.DefaultTimezoneOffset),
		overrides: make(map[reflect.Type]Override, len(cfg.Overrides)),
		depth:     cfg.RecursiveDepth,
	}

	for _, o := range cfg.Overrides {
		if o == nil {
			return nil, errors.New("fake: nil override")
		}
		t := o.target()
		if _, ok := f.overrides[t]; ok {
			return nil, errors.Errorf("fake: duplicate override for %s", t)
		}
		f.overrides[t] = o
	}

	size := cfg.MaxCollectionSize
	if size == 0 {
		size = DefaultMaxCollectionSize
	}
	fields := cfg.TimestampFields
	if fields == nil {
		fields = DefaultTimestampFields
	}

	f.options = []options.OptionFunc{
		options.WithRecursionMaxDepth(cfg.RecursiveDepth),
		options.WithRandomMapAndSliceMaxSize(size),
	}
	for _, name := range fields {
		f.options = append(f.options, options.WithCustomFieldProvider(name, func() (interface{}, error) {
			return f.Timestamp(), nil
		}))
	}
	return f, nil
}

// Generate returns a freshly populated *T with the override for T applied.
func Generate[T any](f *Faker) (*T, error) {
	v := new(T)
	t := reflect.TypeFor[T]()

	// go-faker builds its recursion bookkeeping per call, so the shared option funcs are safe here.
	if err := faker.FakeData(v, f.options...); err != nil {
		return nil, errors.Wrapf(err, "fake: generate %s", t)
	}
	if o, ok := f.overrides[t]; ok {
		if err := o.apply(f, v); err != nil {
			return nil, errors.Wrapf(err, "fake: override %s", t)
		}
	}
	if f.observer != nil {
		f.observer.ObserveGenerated(t.Name())
	}
	return v, nil
}

// Timestamp returns a random past instant in the configured zone.
func (f *Faker) Timestamp() time.Time {
	return time.Unix(faker.RandomUnixTime(), 0).In(f.location)
}

// Location is the zone of generated timestamps.
func (f *Faker) Location() *time.Location { return f.location }

// RecursiveDepth is the configured recursion limit.
func (f *Faker) RecursiveDepth() uint { return f.depth }

// HasOverride reports whether an override is registered for *T.
func HasOverride[T any](f *Faker) bool {
	_, ok := f.overrides[reflect.TypeFor[T]()]
	return ok
}

func zone(offset time.Duration) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	seconds := int(offset / time.Second)
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return time.FixedZone(fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, seconds%3600/60), int(offset/time.Second))
}
