package roles

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/omrozmen/libseed/internal/table"
)

// ReturnedProbability is the share of generated return dates that are
// present; the rest model books that have not come back yet.
const ReturnedProbability = 0.75

// Generator synthesizes values for classified columns. All randomness comes
// from the random source it was built with, and "today" from its clock.
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator builds a Generator from an explicit random source and clock.
// A nil clock means time.Now.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// NewRand returns the PCG source every seeded command draws from, so one
// seed value means the same stream whichever command it is given to.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSeeded returns a Generator over NewRand(seed).
func NewSeeded(seed uint64, now func() time.Time) *Generator {
	return NewGenerator(NewRand(seed), now)
}

// Rand exposes the underlying random source to callers that share it.
func (g *Generator) Rand() *rand.Rand { return g.rng }

// Today returns the current date at UTC midnight.
func (g *Generator) Today() time.Time {
	y, m, d := g.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Value classifies column for kind and synthesizes a value for it. id is
// returned for identifier columns; statuses are preferred over the default
// status set when non-empty.
func (g *Generator) Value(column string, kind Kind, id table.Value, statuses []table.Value) table.Value {
	return g.ForRole(Classify(column, kind), id, statuses)
}

// ForRole synthesizes a value for an already resolved role.
func (g *Generator) ForRole(role Role, id table.Value, statuses []table.Value) table.Value {
	switch role {
	case Identifier, LoanID, StudentRef, BookRef:
		return id
	case Title:
		return table.String(g.Title())
	case Author, PersonnelName, StudentName:
		return table.String(g.PersonName())
	case PublicationYear:
		return table.Int(int64(g.between(1950, g.now().Year())))
	case ISBN:
		return table.String(g.digits(13))
	case Category:
		return table.String(pick(g.rng, categories))
	case ShelfLocation:
		return table.String(fmt.Sprintf("R%d-S%d", g.between(1, 10), g.between(1, 30)))
	case FirstName:
		return table.String(pick(g.rng, firstNames))
	case LastName:
		return table.String(pick(g.rng, lastNames))
	case Grade:
		return table.String(pick(g.rng, grades))
	case Phone:
		return table.String(g.Phone())
	case Email:
		return table.String(g.Email())
	case StudentNumber:
		return table.Int(int64(g.between(1, 9999)))
	case IssueDate:
		return table.Date(g.DaysAgo(g.between(0, 365)))
	case ReturnDate:
		if g.rng.Float64() < ReturnedProbability {
			return table.Date(g.DaysAgo(g.between(0, 300)))
		}
		return table.Null()
	case Status:
		return g.Status(statuses)
	default:
		return table.String(pick(g.rng, words))
	}
}

// Status draws uniformly from the non-null observed values, or from
// DefaultStatuses when there are none.
func (g *Generator) Status(observed []table.Value) table.Value {
	var pool []table.Value
	for _, v := range observed {
		if !v.IsNull() {
			pool = append(pool, v)
		}
	}
	if len(pool) == 0 {
		return table.String(pick(g.rng, DefaultStatuses))
	}
	return pick(g.rng, pool)
}

// Title returns a 2 to 6 word book title in sentence case.
func (g *Generator) Title() string {
	n := g.between(2, 6)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pick(g.rng, words)
	}
	s := strings.Join(parts, " ")
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Turkish).String(string(r)) + s[size:]
}

// PersonName returns "First Last".
func (g *Generator) PersonName() string {
	return pick(g.rng, firstNames) + " " + pick(g.rng, lastNames)
}

// Phone returns a Turkish mobile number.
func (g *Generator) Phone() string {
	return fmt.Sprintf("+90 5%s %s %s %s", g.digits(2), g.digits(3), g.digits(2), g.digits(2))
}

// Email returns an ASCII address derived from a random name.
func (g *Generator) Email() string {
	local := Fold(pick(g.rng, firstNames)) + "." + Fold(pick(g.rng, lastNames))
	return fmt.Sprintf("%s%d@%s", local, g.between(1, 99), pick(g.rng, emailDomains))
}

// DaysAgo returns today minus days.
func (g *Generator) DaysAgo(days int) time.Time {
	return g.Today().AddDate(0, 0, -days)
}

// Between returns a uniform integer in [lo, hi].
func (g *Generator) Between(lo, hi int) int { return g.between(lo, hi) }

func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) digits(n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(byte('0' + g.rng.IntN(10)))
	}
	return b.String()
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.IntN(len(xs))]
}
