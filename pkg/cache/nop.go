package cache

import (
	"context"
	"time"
)

// Nop is used when caching is disabled. Every Get is a miss.
type Nop struct{}

func NewNop() Cache { return Nop{} }

func (Nop) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Incr(context.Context, string) (int64, error)                   { return 0, nil }
func (Nop) Delete(context.Context, ...string) error                       { return nil }
func (Nop) DeletePattern(context.Context, string) error                   { return nil }
func (Nop) Ping(context.Context) error                                    { return nil }
