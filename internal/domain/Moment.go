package domain

import (
	"fmt"
	"strings"
	"time"
)

// Moment é um valor temporal do warehouse: ou uma data de calendário ou um instante completo.
// Colunas DATE e TIMESTAMP convivem na mesma consulta, por isso a precisão vai junto do valor.
type Moment struct {
	Time     time.Time
	DateOnly bool
}

func NewDate(year int, month time.Month, day int) *Moment {
	return &Moment{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), DateOnly: true}
}

func NewTimestamp(t time.Time) *Moment {
	return &Moment{Time: t}
}

// ParseMoment aceita "2006-01-02", RFC3339 e "2006-01-02 15:04:05" (assumido UTC).
func ParseMoment(value string) (*Moment, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return &Moment{Time: t, DateOnly: true}, nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.DateTime, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &Moment{Time: t}, nil
		}
	}

	return nil, fmt.Errorf("invalid date or timestamp: %q", value)
}

func (m Moment) String() string {
	if m.DateOnly {
		return m.Time.Format(time.DateOnly)
	}
	return m.Time.Format(time.RFC3339Nano)
}

func (m Moment) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Moment) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*m = Moment{}
		return nil
	}

	parsed, err := ParseMoment(raw)
	if err != nil {
		return err
	}

	*m = *parsed
	return nil
}
