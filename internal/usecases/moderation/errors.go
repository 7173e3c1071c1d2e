package moderation

import (
	"errors"
	"fmt"
)

// Erros do contexto de relatórios de moderação
var (
	ErrNoDataset        = errors.New("no dataset available")
	ErrHourlyPrecision  = errors.New("hourly aggregation requires timestamp precision")
	ErrInvalidGroupKeys = errors.New("invalid group keys")
	ErrInvalidHours     = errors.New("hours must be between 1 and 48")
)

type FetchReason string

const (
	// FetchUnavailable cobre rede, credenciais e timeout do warehouse.
	FetchUnavailable FetchReason = "unavailable"
	// FetchMalformed indica resultado sem alguma coluna obrigatória.
	FetchMalformed FetchReason = "malformed"
)

// FetchError é a falha tipada da leitura do warehouse. Nenhum snapshot parcial é publicado.
type FetchError struct {
	Reason  FetchReason
	Err     error
	Details string
}

func (e *FetchError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("fetch %s: %s: %v", e.Reason, e.Details, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(reason FetchReason, err error, details string) *FetchError {
	return &FetchError{
		Reason:  reason,
		Err:     err,
		Details: details,
	}
}

// IsUnavailable diz se err indica ausência de dados para servir, seja por falha
// de leitura ou porque nenhum snapshot foi carregado ainda.
func IsUnavailable(err error) bool {
	var fetchErr *FetchError
	return errors.Is(err, ErrNoDataset) || errors.As(err, &fetchErr)
}
