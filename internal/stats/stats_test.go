package stats

import (
	"testing"
	"time"

	"github.com/noxus/leadops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lead(created string, mutate ...func(*models.Lead)) models.Lead {
	l := models.Lead{DataCriacao: created}
	for _, m := range mutate {
		m(&l)
	}
	return l
}

func TestCountBy_OrdersAndLabelsBlanks(t *testing.T) {
	interesse := func(v string) func(*models.Lead) {
		return func(l *models.Lead) { l.Interesse = v }
	}
	leads := []models.Lead{
		lead("", interesse("Franquia")),
		lead("", interesse("  ")),
		lead("", interesse("ábaco")),
		lead("", interesse("Franquia")),
		lead("", interesse("Zeta")),
		lead("", interesse("")),
		lead("", interesse("Abelha")),
	}

	got := ByInteresse(leads)

	require.Len(t, got, 5)
	assert.Equal(t, Bucket{Label: "Franquia", Total: 2}, got[0])
	assert.Equal(t, Bucket{Label: Unknown, Total: 2}, got[1])
	// ties sort accent-insensitively: ábaco < Abelha < Zeta
	assert.Equal(t, []string{"ábaco", "Abelha", "Zeta"}, []string{got[2].Label, got[3].Label, got[4].Label})
	assert.Equal(t, int64(len(leads)), Sum(got))
}

func TestCountBy_SumMatchesInput(t *testing.T) {
	var leads []models.Lead
	for i, estado := range []string{"sp", "SP", "rj", "", "mg", "sp"} {
		leads = append(leads, lead("", func(l *models.Lead) {
			l.Estado = estado
			l.ID = models.FlexInt(i)
		}))
	}
	got := ByEstado(leads)
	assert.Equal(t, int64(len(leads)), Sum(got))
	assert.Equal(t, Bucket{Label: "SP", Total: 3}, got[0])
}

func TestLast30Days_ZeroFills(t *testing.T) {
	now := time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		lead("2025-06-01 10:00:00"),
		lead("2025-06-15 08:30:00"),
		lead("2025-06-15 23:59:59"),
		lead("2025-05-31 12:00:00"),
		lead("not a date"),
	}

	got := Last30Days(leads, now)

	require.Len(t, got, 30)
	assert.Equal(t, "2025-06-01", got[0].Date)
	assert.Equal(t, "2025-06-30", got[29].Date)

	var total int64
	for _, d := range got {
		total += d.Total
		switch d.Date {
		case "2025-06-01":
			assert.Equal(t, int64(1), d.Total)
		case "2025-06-15":
			assert.Equal(t, int64(2), d.Total)
		default:
			assert.Zero(t, d.Total, d.Date)
		}
	}
	assert.Equal(t, int64(3), total)
}

func TestLast12Months(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		lead("2024-04-02"),
		lead("2024-03-31"),
		lead("2025-03-09T10:00:00Z"),
	}

	got := Last12Months(leads, now)

	require.Len(t, got, 12)
	assert.Equal(t, "2024-04", got[0].Month)
	assert.Equal(t, "2025-03", got[11].Month)
	assert.Equal(t, int64(1), got[0].Total)
	assert.Equal(t, int64(1), got[11].Total)
}

func TestFillDays(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	points := []models.DayCount{
		{Date: "2025-01-02", Total: 4},
		{Date: "2025-01-04 00:00:00", Total: 1},
	}

	got := FillDays(points, from, to)

	assert.Equal(t, []models.DayCount{
		{Date: "2025-01-01", Total: 0},
		{Date: "2025-01-02", Total: 4},
		{Date: "2025-01-03", Total: 0},
		{Date: "2025-01-04", Total: 1},
	}, got)

	assert.Empty(t, FillDays(points, to, from))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 30, 18, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		lead("2025-06-30 09:00:00"),
		lead("2025-06-30 17:45:00"),
		lead("2025-06-29 23:00:00"),
		lead(""),
	}

	s := Summarize(leads, now)

	assert.Equal(t, int64(4), s.Total)
	assert.Equal(t, int64(2), s.Hoje)
	require.NotNil(t, s.UltimaCaptura)
	assert.Equal(t, 17, s.UltimaCaptura.Hour())

	empty := Summarize(nil, now)
	assert.Nil(t, empty.UltimaCaptura)
	assert.Zero(t, empty.Total)
}

func TestContactRate(t *testing.T) {
	leads := []models.Lead{
		{Atendido: true}, {Atendido: false}, {Atendido: true}, {Atendido: false},
	}
	s := ContactRate(leads)
	assert.Equal(t, int64(2), s.LeadsContatados)
	assert.Equal(t, int64(2), s.LeadsNaoContatados)
	assert.InDelta(t, 50.0, s.PercContatados, 0.001)

	assert.Zero(t, ContactRate(nil).PercContatados)
}
