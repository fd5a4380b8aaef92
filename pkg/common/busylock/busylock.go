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

// Package busylock provides the lifecycle guard of the gateway: request
// handling enters a non-exclusive busy permit, shutdown blocks new permits
// and waits for the entered ones to leave.
package busylock

import "sync"

// BusyLock hands out busy permits until Block is called.
//
// TryEnter never blocks. Block returns only after every entered permit
// has left; once it returned, TryEnter always reports false.
type BusyLock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	permits int
	blocked bool
}

func New() *BusyLock {
	l := &BusyLock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// TryEnter acquires a busy permit. It reports false iff a shutdown is
// in progress.
func (l *BusyLock) TryEnter() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.blocked {
		return false
	}
	l.permits++
	return true
}

// Leave releases a permit acquired by TryEnter. It always succeeds.
func (l *BusyLock) Leave() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.permits--
	if l.permits == 0 && l.blocked {
		l.cond.Broadcast()
	}
}

// Block denies further TryEnter calls and waits until all permits left.
func (l *BusyLock) Block() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blocked = true
	for l.permits > 0 {
		l.cond.Wait()
	}
}
