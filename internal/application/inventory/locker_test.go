package inventory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureLocker_ExclusionPorClave(t *testing.T) {
	l := NewSignatureLocker()
	unlock := l.Lock("a")

	acquired := make(chan struct{})
	go func() {
		release := l.Lock("a")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("la misma clave no debe adquirirse dos veces")
	case <-time.After(50 * time.Millisecond):
	}

	// otra clave no se bloquea
	other := l.Lock("b")
	other()

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("la clave no se liberó")
	}
}

func TestSignatureLocker_LiberaEntradas(t *testing.T) {
	l := NewSignatureLocker()
	var wg sync.WaitGroup
	var mu sync.Mutex
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("y", "x", "x")
			mu.Lock()
			counter++
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
	assert.Zero(t, l.size())
}
