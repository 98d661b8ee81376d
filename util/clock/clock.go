// Package clock injects "now" so temporal rules stay testable.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type system struct{}

func (system) Now() time.Time { return time.Now().UTC() }

func System() Clock { return system{} }

type fixed struct{ t time.Time }

func (f fixed) Now() time.Time { return f.t }

// Fixed returns a clock pinned to t.
func Fixed(t time.Time) Clock { return fixed{t: t} }
