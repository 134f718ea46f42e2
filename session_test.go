package lycoris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDo(t *testing.T) {
	s := NewSession(time.Minute)

	res := s.Do(Request{ID: "r1", Source: "1 2 add"})
	require.NoError(t, res.Err)
	assert.Equal(t, "r1", res.ID)
	assert.Equal(t, []string{"3"}, s.Stack())

	res = s.Do(Request{ID: "r2", Source: "0 div"})
	assert.Equal(t, "r2", res.ID)
	require.Error(t, res.Err)
	assert.Contains(t, res.Output, "DomainError")
	// the failing token had no effect
	assert.Equal(t, []string{"3", "0"}, s.Stack())
}

func TestSessionReplaceRestoresDictionary(t *testing.T) {
	s := NewSession(time.Minute)

	res := s.Do(Request{ID: "def", Source: "[dup mul] 'square' def 5"})
	require.NoError(t, res.Err)
	require.Equal(t, []string{"5"}, s.Stack())

	// replacement loses the stack but restores the last good dictionary
	s.replace()
	assert.Empty(t, s.Stack())

	res = s.Do(Request{ID: "use", Source: "6 square"})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"36"}, s.Stack())
}

func TestSessionServe(t *testing.T) {
	s := NewSession(time.Minute)
	requests := make(chan Request)
	responses := make(chan Response)

	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background(), requests, responses) }()

	requests <- Request{ID: "a", Source: "1 2 add print"}
	res := <-responses
	assert.Equal(t, "a", res.ID)
	require.NoError(t, res.Err)
	assert.Equal(t, "3\n", res.Output)

	requests <- Request{ID: "b", Source: "bogus"}
	res = <-responses
	assert.Equal(t, "b", res.ID)
	require.Error(t, res.Err)

	close(requests)
	require.NoError(t, <-done)
}

func TestSessionServeCancel(t *testing.T) {
	s := NewSession(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	requests := make(chan Request)
	responses := make(chan Response)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, requests, responses) }()

	cancel()
	assert.Equal(t, context.Canceled, <-done)
}

func TestSessionDefaultTimeout(t *testing.T) {
	s := NewSession(0)
	assert.Equal(t, defaultSessionTimeout, s.timeout)
}
