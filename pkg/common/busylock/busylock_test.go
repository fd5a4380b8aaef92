// Copyright 2023 Memgrid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package busylock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTryEnterLeave(t *testing.T) {
	l := New()
	require.True(t, l.TryEnter())
	require.True(t, l.TryEnter())
	l.Leave()
	l.Leave()
}

func TestBlockDeniesEntry(t *testing.T) {
	l := New()
	l.Block()
	require.False(t, l.TryEnter())
	// blocked stays blocked
	require.False(t, l.TryEnter())
}

func TestBlockWaitsForPermits(t *testing.T) {
	l := New()
	require.True(t, l.TryEnter())

	var blocked atomic.Bool
	done := make(chan struct{})
	go func() {
		l.Block()
		blocked.Store(true)
		close(done)
	}()

	// Block must not return while the permit is held
	time.Sleep(50 * time.Millisecond)
	require.False(t, blocked.Load())

	l.Leave()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Block did not return after the last Leave")
	}
	require.False(t, l.TryEnter())
}

func TestConcurrentPermits(t *testing.T) {
	l := New()
	var active atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !l.TryEnter() {
				return
			}
			active.Add(1)
			time.Sleep(time.Millisecond)
			active.Add(-1)
			l.Leave()
		}()
	}

	l.Block()
	// after Block returned no permit may still be active
	require.Equal(t, int64(0), active.Load())
	wg.Wait()
}
