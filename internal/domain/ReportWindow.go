package domain

import (
	"fmt"
	"time"
)

// Window é uma janela de tempo relativa ao "agora" capturado no início da renderização.
type Window string

const (
	WindowToday              Window = "today"
	WindowYesterday          Window = "yesterday"
	WindowLast30Days         Window = "last_30_days"
	WindowCurrentMonthToDate Window = "current_month_to_date"
	WindowLifetime           Window = "lifetime"
)

func ParseWindow(value string) (Window, error) {
	switch w := Window(value); w {
	case WindowToday, WindowYesterday, WindowLast30Days, WindowCurrentMonthToDate, WindowLifetime:
		return w, nil
	default:
		return "", fmt.Errorf("invalid window: %q", value)
	}
}

// StartOfDay retorna a meia-noite do dia de t no fuso do próprio t.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Bounds devolve [start, end) da janela. Quando endInclusive é verdadeiro o limite superior
// é o próprio "agora" e entra na janela. now já deve estar no fuso de referência.
func (w Window) Bounds(now time.Time) (start, end time.Time, endInclusive bool) {
	today := StartOfDay(now)

	switch w {
	case WindowToday:
		return today, today.AddDate(0, 0, 1), false
	case WindowYesterday:
		return today.AddDate(0, 0, -1), today, false
	case WindowLast30Days:
		return today.AddDate(0, 0, -30), now, true
	case WindowCurrentMonthToDate:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains diz se t cai dentro da janela. Lifetime contém qualquer valor.
func (w Window) Contains(t, now time.Time) bool {
	if w == WindowLifetime {
		return true
	}

	start, end, endInclusive := w.Bounds(now)
	if t.Before(start) {
		return false
	}
	if endInclusive {
		return !t.After(end)
	}
	return t.Before(end)
}
