package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	loadEnvOnce sync.Once
	cache       sync.Map // reflect.Type -> *entry
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

// Load parses environment variables into cfg. The first call for a type
// parses the environment; later calls for the same type copy the cached value.
// A .env file in the working directory is loaded once, if present, and never
// overrides variables that are already set.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil destination for %s", reflect.TypeFor[T]())
	}

	loadEnvOnce.Do(func() {
		// Missing .env is the normal case outside local development.
		_ = godotenv.Load()
	})

	v, _ := cache.LoadOrStore(reflect.TypeFor[T](), &entry{})
	e := v.(*entry)
	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = fmt.Errorf("config: failed to parse %s: %w", reflect.TypeFor[T](), err)
			return
		}
		e.value = parsed
	})

	if e.err != nil {
		return e.err
	}
	*cfg = e.value.(T)
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
