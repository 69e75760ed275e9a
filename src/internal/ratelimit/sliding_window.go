/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package ratelimit

import (
	"sync"
	"time"
)

// Result carries the limiter's decision plus the values exposed as
// rate-limit response headers.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	Reset      time.Time
}

// SlidingWindow permits at most maxRequests per identity within a trailing
// window. State is per process; identities observed by different processes
// are counted independently.
type SlidingWindow struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	clock       Clock
}

// NewSlidingWindow creates a limiter allowing maxRequests per window
func NewSlidingWindow(maxRequests int, window time.Duration, clock Clock) *SlidingWindow {
	if clock == nil {
		clock = &SystemClock{}
	}
	return &SlidingWindow{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		clock:       clock,
	}
}

// Check prunes timestamps older than the window, then either records the
// request and permits it or rejects it with a retry hint. The Nth+1 request
// in a full window is rejected; it becomes permitted once the oldest
// timestamp ages out.
func (l *SlidingWindow) Check(identity string) *Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	kept := l.requests[identity][:0]
	for _, ts := range l.requests[identity] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.maxRequests {
		l.requests[identity] = kept
		oldest := kept[0]
		reset := oldest.Add(l.window)
		retryAfter := reset.Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return &Result{
			Allowed:    false,
			Limit:      l.maxRequests,
			Remaining:  0,
			RetryAfter: retryAfter,
			Reset:      reset,
		}
	}

	kept = append(kept, now)
	l.requests[identity] = kept

	return &Result{
		Allowed:   true,
		Limit:     l.maxRequests,
		Remaining: l.maxRequests - len(kept),
		Reset:     now.Add(l.window),
	}
}

// Reset forgets all recorded requests for an identity
func (l *SlidingWindow) Reset(identity string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.requests, identity)
}
