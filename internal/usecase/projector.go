package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const DateLayout = "2006-01-02"

// Filters narrows the board. StartAt and EndAt are already expanded to the start and end
// of their calendar day; zero values mean "no bound".
type Filters struct {
	Search  string
	StartAt time.Time
	EndAt   time.Time
}

// ParseFilters builds Filters from raw query values. Dates are YYYY-MM-DD in loc.
func ParseFilters(search, startDate, endDate string, loc *time.Location) (Filters, error) {
	if loc == nil {
		loc = time.Local
	}
	f := Filters{Search: search}

	if startDate != "" {
		d, err := time.ParseInLocation(DateLayout, startDate, loc)
		if err != nil {
			return Filters{}, ValidationError{"start_date", fmt.Sprintf("must be %s", DateLayout)}
		}
		f.StartAt = d
	}
	if endDate != "" {
		d, err := time.ParseInLocation(DateLayout, endDate, loc)
		if err != nil {
			return Filters{}, ValidationError{"end_date", fmt.Sprintf("must be %s", DateLayout)}
		}
		f.EndAt = endOfDay(d)
	}

	return f, nil
}

func endOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, int(time.Second-time.Nanosecond), d.Location())
}

func (f Filters) Match(e entity.FunnelEntry) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !containsFold(term, e.Lead.Name, e.Lead.Surname, e.Lead.Email, e.Lead.Phone) {
			return false
		}
	}
	if !f.StartAt.IsZero() && e.UpdatedAt.Before(f.StartAt) {
		return false
	}
	if !f.EndAt.IsZero() && e.UpdatedAt.After(f.EndAt) {
		return false
	}
	return true
}

func containsFold(term string, fields ...string) bool {
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// ItemsByStage is a pure projection of one kanban column.
func ItemsByStage(entries []entity.FunnelEntry, stage entity.Stage, f Filters) []entity.FunnelEntry {
	out := []entity.FunnelEntry{}
	for _, e := range entries {
		if e.Stage == stage && f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

type Columns map[entity.Stage][]entity.FunnelEntry

// Project derives all four columns. Every stage key is present, possibly empty.
func Project(entries []entity.FunnelEntry, f Filters) Columns {
	cols := make(Columns, 4)
	for _, st := range entity.Stages() {
		cols[st] = ItemsByStage(entries, st, f)
	}
	return cols
}

func (c Columns) Counts() map[entity.Stage]int {
	counts := make(map[entity.Stage]int, len(c))
	for st, items := range c {
		counts[st] = len(items)
	}
	return counts
}
