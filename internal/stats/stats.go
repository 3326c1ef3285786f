// Package stats aggregates leads into the counters and series shown on the
// dashboards.
package stats

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/noxus/leadops/internal/models"
)

// Unknown labels leads whose grouping field is blank.
const Unknown = "Não informado"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Bucket is one group of a count-by aggregation.
type Bucket struct {
	Label string `json:"label"`
	Total int64  `json:"total"`
}

// CountBy groups leads by key, ordered by total descending and then
// alphabetically (pt-BR, case and accent insensitive).
func CountBy(leads []models.Lead, key func(models.Lead) string) []Bucket {
	counts := make(map[string]int64)
	for _, l := range leads {
		label := strings.TrimSpace(key(l))
		if label == "" {
			label = Unknown
		}
		counts[label]++
	}

	out := make([]Bucket, 0, len(counts))
	for label, total := range counts {
		out = append(out, Bucket{Label: label, Total: total})
	}

	col := NewCollator()
	slices.SortFunc(out, func(a, b Bucket) int {
		if a.Total != b.Total {
			if a.Total > b.Total {
				return -1
			}
			return 1
		}
		if c := col.CompareString(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return out
}

func ByInvestimento(leads []models.Lead) []Bucket {
	return CountBy(leads, func(l models.Lead) string { return l.ExpectativaInvestimento })
}

func ByInteresse(leads []models.Lead) []Bucket {
	return CountBy(leads, func(l models.Lead) string { return l.Interesse })
}

func ByEstado(leads []models.Lead) []Bucket {
	return CountBy(leads, func(l models.Lead) string { return strings.ToUpper(l.Estado) })
}

func ByLoja(leads []models.Lead) []Bucket {
	return CountBy(leads, func(l models.Lead) string { return l.LojaNome })
}

func ByOrigem(leads []models.Lead) []Bucket {
	return CountBy(leads, func(l models.Lead) string { return l.Origem })
}

// Sum totals a set of buckets.
func Sum(buckets []Bucket) int64 {
	var n int64
	for _, b := range buckets {
		n += b.Total
	}
	return n
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LastDays returns exactly n daily buckets ending at now's calendar day,
// oldest first, with days without leads set to zero. Days are computed in
// now's location.
func LastDays(leads []models.Lead, now time.Time, n int) []models.DayCount {
	if n <= 0 {
		return []models.DayCount{}
	}
	loc := now.Location()
	first := startOfDay(now).AddDate(0, 0, -(n - 1))

	out := make([]models.DayCount, n)
	index := make(map[string]int, n)
	for i := range out {
		key := first.AddDate(0, 0, i).Format(dayLayout)
		out[i] = models.DayCount{Date: key}
		index[key] = i
	}

	for _, l := range leads {
		created, ok := l.CreatedAt(loc)
		if !ok {
			continue
		}
		if i, found := index[created.In(loc).Format(dayLayout)]; found {
			out[i].Total++
		}
	}
	return out
}

func Last30Days(leads []models.Lead, now time.Time) []models.DayCount {
	return LastDays(leads, now, 30)
}

// LastMonths returns exactly n monthly buckets ending at now's month.
func LastMonths(leads []models.Lead, now time.Time, n int) []models.MonthCount {
	if n <= 0 {
		return []models.MonthCount{}
	}
	loc := now.Location()
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, -(n - 1), 0)

	out := make([]models.MonthCount, n)
	index := make(map[string]int, n)
	for i := range out {
		key := first.AddDate(0, i, 0).Format(monthLayout)
		out[i] = models.MonthCount{Month: key}
		index[key] = i
	}

	for _, l := range leads {
		created, ok := l.CreatedAt(loc)
		if !ok {
			continue
		}
		if i, found := index[created.In(loc).Format(monthLayout)]; found {
			out[i].Total++
		}
	}
	return out
}

func Last12Months(leads []models.Lead, now time.Time) []models.MonthCount {
	return LastMonths(leads, now, 12)
}

// FillDays expands an upstream day series to every day in [from, to],
// inserting zero for the days the upstream omitted.
func FillDays(points []models.DayCount, from, to time.Time) []models.DayCount {
	from, to = startOfDay(from), startOfDay(to.In(from.Location()))
	if to.Before(from) {
		return []models.DayCount{}
	}

	totals := make(map[string]int64, len(points))
	for _, p := range points {
		key := p.Date
		if len(key) > len(dayLayout) {
			key = key[:len(dayLayout)]
		}
		totals[key] += p.Total
	}

	var out []models.DayCount
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		out = append(out, models.DayCount{Date: key, Total: totals[key]})
	}
	return out
}

// Summary is the headline counters of a lead set.
type Summary struct {
	Total         int64      `json:"total"`
	Hoje          int64      `json:"hoje"`
	UltimaCaptura *time.Time `json:"ultimaCaptura"`
}

// Summarize counts all leads, those created on now's calendar day, and
// finds the most recent creation time.
func Summarize(leads []models.Lead, now time.Time) Summary {
	loc := now.Location()
	today := now.Format(dayLayout)

	s := Summary{Total: int64(len(leads))}
	for _, l := range leads {
		created, ok := l.CreatedAt(loc)
		if !ok {
			continue
		}
		if created.In(loc).Format(dayLayout) == today {
			s.Hoje++
		}
		if s.UltimaCaptura == nil || created.After(*s.UltimaCaptura) {
			c := created
			s.UltimaCaptura = &c
		}
	}
	return s
}

// ContactRate splits leads into contacted and not contacted. Average times
// are left at zero; only the upstream tracks contact timestamps.
func ContactRate(leads []models.Lead) models.ContatoStats {
	s := models.ContatoStats{TotalLeads: int64(len(leads))}
	for _, l := range leads {
		if l.Atendido {
			s.LeadsContatados++
		}
	}
	s.LeadsNaoContatados = s.TotalLeads - s.LeadsContatados
	if s.TotalLeads > 0 {
		s.PercContatados = percent(s.LeadsContatados, s.TotalLeads)
		s.PercNaoContatados = percent(s.LeadsNaoContatados, s.TotalLeads)
	}
	return s
}

func percent(part, total int64) float64 {
	return math.Round(float64(part)*10000/float64(total)) / 100
}
