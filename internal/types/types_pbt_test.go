package types

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	genDate := gopter.CombineGens(
		gen.IntRange(1970, 2100),
		gen.IntRange(1, 12),
		gen.IntRange(1, 28),
	).Map(func(vals []interface{}) Date {
		return NewDate(vals[0].(int), time.Month(vals[1].(int)), vals[2].(int))
	})

	properties.Property("string format round-trips through ParseDate", prop.ForAll(
		func(d Date) bool {
			back, err := ParseDate(d.String())
			return err == nil && back.Equal(d)
		},
		genDate,
	))

	properties.Property("month steps compose for days that never overflow", prop.ForAll(
		func(d Date, a, b int) bool {
			return d.AddMonths(a).AddMonths(b).Equal(d.AddMonths(a + b))
		},
		genDate,
		gen.IntRange(0, 240),
		gen.IntRange(0, 240),
	))

	properties.Property("adding months moves strictly forward", prop.ForAll(
		func(d Date, n int) bool {
			return d.AddMonths(n).After(d)
		},
		genDate,
		gen.IntRange(1, 600),
	))

	properties.Property("adding years preserves month and day", prop.ForAll(
		func(d Date, n int) bool {
			next := d.AddYears(n)
			return next.Year() == d.Year()+n && next.Month() == d.Month() && next.Day() == d.Day()
		},
		genDate,
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
