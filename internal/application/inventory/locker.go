package inventory

import (
	"sort"
	"sync"
)

// SignatureLocker serializa, dentro del proceso, los escritores de una misma firma de equivalencia.
// Complementa el lock de la BD (advisory lock) cuando hay un único proceso escritor.
type SignatureLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewSignatureLocker construye el locker.
func NewSignatureLocker() *SignatureLocker {
	return &SignatureLocker{locks: make(map[string]*keyLock)}
}

// Lock adquiere las claves en orden (evita interbloqueos) y devuelve la función de liberación.
func (l *SignatureLocker) Lock(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	held := make([]*keyLock, 0, len(uniq))
	for _, k := range uniq {
		l.mu.Lock()
		kl, ok := l.locks[k]
		if !ok {
			kl = &keyLock{}
			l.locks[k] = kl
		}
		kl.refs++
		l.mu.Unlock()

		kl.mu.Lock()
		held = append(held, kl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}
		l.mu.Lock()
		for _, k := range uniq {
			kl := l.locks[k]
			kl.refs--
			if kl.refs == 0 {
				delete(l.locks, k)
			}
		}
		l.mu.Unlock()
	}
}

// size número de claves vivas (usado en tests).
func (l *SignatureLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
