package completion

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vlmbridge/clients"
	"vlmbridge/core"
	"vlmbridge/models"
)

// stubClient lets each test script the backend behavior directly.
type stubClient struct {
	generate func(ctx context.Context, turns []models.ConversationTurn, params clients.CompletionParams) (string, error)
}

func (c *stubClient) GenerateCompletion(
	ctx context.Context,
	turns []models.ConversationTurn,
	params clients.CompletionParams,
) (string, error) {
	return c.generate(ctx, turns, params)
}

func userTurn(content string) []models.ConversationTurn {
	return []models.ConversationTurn{{Role: models.RoleUser, Content: content}}
}

func TestGenerateCompletion_Success(t *testing.T) {
	client := &stubClient{
		generate: func(ctx context.Context, turns []models.ConversationTurn, params clients.CompletionParams) (string, error) {
			assert.Equal(t, 0.85, params.TopP)
			return `{"command":"rotate_mesh"}`, nil
		},
	}

	service := NewCompletionService(client, Config{Params: clients.CompletionParams{TopP: 0.85}})
	defer service.Close()

	text, err := service.GenerateCompletion(context.Background(), userTurn("rotate the cube"))

	require.NoError(t, err)
	assert.Equal(t, `{"command":"rotate_mesh"}`, text)
}

func TestGenerateCompletion_TransportErrorClassified(t *testing.T) {
	client := &stubClient{
		generate: func(ctx context.Context, turns []models.ConversationTurn, params clients.CompletionParams) (string, error) {
			return "", fmt.Errorf("connection refused")
		},
	}

	service := NewCompletionService(client, Config{})
	defer service.Close()

	_, err := service.GenerateCompletion(context.Background(), userTurn("hello"))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCompletionTransport)
	assert.True(t, core.IsFatalCompletionError(err))
}

func TestGenerateCompletion_TimeoutDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	var lateCalls atomic.Int32

	client := &stubClient{
		generate: func(ctx context.Context, turns []models.ConversationTurn, params clients.CompletionParams) (string, error) {
			lateCalls.Add(1)
			if lateCalls.Load() == 1 {
				<-release // hang past the caller's deadline
				return "late response", nil
			}
			return "fresh response", nil
		},
	}

	service := NewCompletionService(client, Config{Workers: 1, RequestTimeout: 20 * time.Millisecond})
	defer service.Close()

	_, err := service.GenerateCompletion(context.Background(), userTurn("slow"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCompletionTimeout)

	// Release the hung call; its late result must be dropped and the worker
	// must keep serving subsequent tasks.
	close(release)

	text, err := service.GenerateCompletion(context.Background(), userTurn("fast"))
	require.NoError(t, err)
	assert.Equal(t, "fresh response", text)
}

func TestGenerateCompletion_PoolBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	var mu sync.Mutex

	client := &stubClient{
		generate: func(ctx context.Context, turns []models.ConversationTurn, params clients.CompletionParams) (string, error) {
			current := inFlight.Add(1)
			defer inFlight.Add(-1)

			mu.Lock()
			if current > peak.Load() {
				peak.Store(current)
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
			return "done", nil
		},
	}

	service := NewCompletionService(client, Config{Workers: 2, RequestTimeout: time.Second})
	defer service.Close()

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.GenerateCompletion(context.Background(), userTurn("concurrent"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2), "no more than two calls may run concurrently")
}

func TestGenerateCompletion_QueuedTaskSkippedAfterCallerGaveUp(t *testing.T) {
	block := make(chan struct{})
	var calls atomic.Int32

	client := &stubClient{
		generate: func(ctx context.Context, turns []models.ConversationTurn, params clients.CompletionParams) (string, error) {
			calls.Add(1)
			<-block
			return "done", nil
		},
	}

	service := NewCompletionService(client, Config{Workers: 1, RequestTimeout: 30 * time.Millisecond})
	defer service.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := service.GenerateCompletion(context.Background(), userTurn("first"))
		assert.ErrorIs(t, err, core.ErrCompletionTimeout)
	}()
	go func() {
		defer wg.Done()
		_, err := service.GenerateCompletion(context.Background(), userTurn("second"))
		assert.ErrorIs(t, err, core.ErrCompletionTimeout)
	}()
	wg.Wait()

	close(block)
	// Give the worker a beat to drain the queue.
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load(),
		"the queued task must be skipped once its caller has timed out")
}
