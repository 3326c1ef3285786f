// Package format renders durations, dates and contact links in pt-BR.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

// EmptyCapture is shown when a store never captured a lead.
const EmptyCapture = "—"

func plural(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}

// Minutes renders an average contact time given in minutes:
// "30 segundos", "45 minutos", "2 horas", "2h 30min", "1 dia e 3h".
func Minutes(m float64) string {
	if m < 0 || math.IsNaN(m) {
		m = 0
	}
	if m < 1 {
		return plural(int(math.Round(m*60)), "segundo")
	}
	if m < 60 {
		return plural(int(math.Round(m)), "minuto")
	}

	total := int(math.Round(m))
	if total < 1440 {
		h, rest := total/60, total%60
		if rest == 0 {
			return plural(h, "hora")
		}
		return fmt.Sprintf("%dh %dmin", h, rest)
	}

	days := total / 1440
	h := (total % 1440) / 60
	out := plural(days, "dia")
	if h > 0 {
		out += fmt.Sprintf(" e %dh", h)
	}
	return out
}

// Hours renders a duration given in hours.
func Hours(h float64) string {
	if h < 0 || math.IsNaN(h) {
		h = 0
	}
	if h < 1 {
		return plural(int(math.Round(h*60)), "minuto")
	}
	if h < 24 {
		whole := int(math.Floor(h))
		m := int(math.Round((h - float64(whole)) * 60))
		if m == 60 {
			whole, m = whole+1, 0
		}
		if m == 0 {
			return plural(whole, "hora")
		}
		return fmt.Sprintf("%dh %dmin", whole, m)
	}

	days := int(math.Floor(h / 24))
	rest := int(math.Round(math.Mod(h, 24)))
	if rest == 24 {
		days, rest = days+1, 0
	}
	if rest == 0 {
		return plural(days, "dia")
	}
	return fmt.Sprintf("%s e %dh", plural(days, "dia"), rest)
}

// LastCapture renders the latest lead creation time as "dd/MM/yyyy às HH:mm".
func LastCapture(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return EmptyCapture
	}
	if loc != nil {
		return t.In(loc).Format("02/01/2006 às 15:04")
	}
	return t.Format("02/01/2006 às 15:04")
}

// Date renders a day as dd/MM/yyyy.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// DigitsOnly strips everything but digits from a phone number.
func DigitsOnly(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// ContactLinks are the one-click contact targets of a lead.
type ContactLinks struct {
	Tel      string `json:"tel,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Mailto   string `json:"mailto,omitempty"`
}

func Links(phone, email string) ContactLinks {
	var l ContactLinks
	if digits := DigitsOnly(phone); digits != "" {
		l.Tel = "tel:" + digits
		l.WhatsApp = "https://wa.me/" + digits
	}
	if email = strings.TrimSpace(email); email != "" {
		l.Mailto = "mailto:" + email
	}
	return l
}
