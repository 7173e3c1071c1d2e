package moderation

import "sync"

// Memo guarda apenas o último resultado calculado, identificado por uma chave canônica.
// Um valor novo substitui o anterior.
type Memo[T any] struct {
	mu     sync.Mutex
	key    string
	value  T
	filled bool
	hits   int
	misses int
}

// Get devolve o valor em cache para key ou calcula, guarda e devolve. O segundo
// retorno indica acerto. compute roda com o lock adquirido, então chamadas
// concorrentes com a mesma chave calculam uma única vez.
func (m *Memo[T]) Get(key string, compute func() T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.filled && m.key == key {
		m.hits++
		return m.value, true
	}

	m.misses++
	m.value = compute()
	m.key = key
	m.filled = true
	return m.value, false
}

func (m *Memo[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	m.value = zero
	m.key = ""
	m.filled = false
}

// Stats devolve acertos e falhas desde a criação.
func (m *Memo[T]) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hits, m.misses
}
