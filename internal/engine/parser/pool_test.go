package parser

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserPoolLeases(t *testing.T) {
	pool := NewParserPool(NewGrammarLoader().Language())

	sp := pool.Get()
	require.NotNil(t, sp)
	assert.Equal(t, 1, pool.Leased())
	assert.GreaterOrEqual(t, pool.OldestLease(time.Now().Add(time.Second)), time.Second)

	pool.Put(sp)
	pool.Put(nil)
	assert.Equal(t, 0, pool.Leased())
	assert.Zero(t, pool.OldestLease(time.Now()))
}

func TestParserPoolConcurrentParse(t *testing.T) {
	pool := NewParserPool(NewGrammarLoader().Language())
	src := []byte("class A { void m() { int x = 1; } }")

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				sp := pool.Get()
				tree := sp.Parse(src, nil)
				if tree == nil || tree.RootNode().HasError() {
					errs <- "parse failed"
				}
				if tree != nil {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
	assert.Equal(t, 0, pool.Leased())
}
