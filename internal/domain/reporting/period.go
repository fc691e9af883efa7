package reporting

import (
	"fmt"
	"time"

	"github.com/jhoicas/lanchonete-api/internal/domain"
)

// Rangos de fecha aceptados por el dashboard.
const (
	RangeToday  = "today"
	Range7Days  = "7d"
	Range30Days = "30d"
	RangeCustom = "custom"
	RangeAll    = "all"
)

const dateLayout = "2006-01-02"

// Period intervalo de días calendario (inclusivo en ambos extremos) en una zona horaria.
// Un extremo en cero significa sin límite.
type Period struct {
	From time.Time
	To   time.Time
	Loc  *time.Location
}

// ResolvePeriod traduce el rango pedido a días concretos relativos a now en loc.
// "7d" y "30d" incluyen el día de hoy.
func ResolvePeriod(kind, start, end string, now time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := dayOf(now, loc)
	p := Period{Loc: loc}

	switch kind {
	case "", RangeAll:
	case RangeToday:
		p.From, p.To = today, today
	case Range7Days:
		p.From, p.To = today.AddDate(0, 0, -6), today
	case Range30Days:
		p.From, p.To = today.AddDate(0, 0, -29), today
	case RangeCustom:
		if start != "" {
			t, err := time.ParseInLocation(dateLayout, start, loc)
			if err != nil {
				return Period{}, fmt.Errorf("%w: start debe ser YYYY-MM-DD", domain.ErrInvalidInput)
			}
			p.From = t
		}
		if end != "" {
			t, err := time.ParseInLocation(dateLayout, end, loc)
			if err != nil {
				return Period{}, fmt.Errorf("%w: end debe ser YYYY-MM-DD", domain.ErrInvalidInput)
			}
			p.To = t
		}
		if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
			return Period{}, fmt.Errorf("%w: end anterior a start", domain.ErrInvalidInput)
		}
	default:
		return Period{}, fmt.Errorf("%w: rango desconocido %q", domain.ErrInvalidInput, kind)
	}
	return p, nil
}

// Contains compara por día calendario local.
func (p Period) Contains(t time.Time) bool {
	loc := p.Loc
	if loc == nil {
		loc = time.UTC
	}
	day := dayOf(t, loc)
	if !p.From.IsZero() && day.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && day.After(p.To) {
		return false
	}
	return true
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
