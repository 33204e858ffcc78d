package connection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnqueueNeverBlocks(t *testing.T) {
	client := NewClient(nil)

	// no pump is draining, so the queue fills up and further messages are
	// dropped instead of blocking the caller
	for i := 0; i < sendQueueSize; i++ {
		assert.True(t, client.Enqueue([]byte("msg")))
	}
	assert.False(t, client.Enqueue([]byte("overflow")))
}

func TestEnqueueAfterClose(t *testing.T) {
	client := NewClient(nil)

	client.Close()
	assert.False(t, client.Enqueue([]byte("msg")))
}

func TestCloseIdempotent(t *testing.T) {
	client := NewClient(nil)

	client.Close()
	assert.NotPanics(t, client.Close)
}

func TestEnqueueCloseRace(t *testing.T) {
	client := NewClient(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				client.Enqueue([]byte("msg"))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		client.Close()
	}()
	wg.Wait()

	assert.False(t, client.Enqueue([]byte("msg")))
}
