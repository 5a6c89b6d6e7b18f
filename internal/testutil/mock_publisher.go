// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package testutil

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MockPublisher records the states and service calls that would have
// been sent to a Home Assistant instance.
type MockPublisher struct {
	sync.Mutex
	States   []MockState
	Purges   []MockPurge
	Services map[string]bool // "domain.service" -> available
	Fail     error           // returned by all calls when non-nil
}

type MockState struct {
	EntityID   string
	State      string
	Attributes map[string]any
}

type MockPurge struct {
	EntityIDs []string
	Repack    bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Services: map[string]bool{"recorder.purge_entities": true},
	}
}

func (mp *MockPublisher) SetState(_ context.Context, entityID, state string, attributes map[string]any) error {
	mp.Lock()
	defer mp.Unlock()
	if mp.Fail != nil {
		return mp.Fail
	}
	mp.States = append(mp.States, MockState{entityID, state, attributes})
	return nil
}

func (mp *MockPublisher) PurgeEntities(_ context.Context, entityIDs []string, repack bool) error {
	mp.Lock()
	defer mp.Unlock()
	if mp.Fail != nil {
		return mp.Fail
	}
	mp.Purges = append(mp.Purges, MockPurge{slices.Clone(entityIDs), repack})
	return nil
}

func (mp *MockPublisher) HasService(_ context.Context, domain, service string) (bool, error) {
	mp.Lock()
	defer mp.Unlock()
	if mp.Fail != nil {
		return false, mp.Fail
	}
	return mp.Services[domain+"."+service], nil
}

// LastState returns the most recently published state for an entity.
func (mp *MockPublisher) LastState(entityID string) (MockState, bool) {
	mp.Lock()
	defer mp.Unlock()
	for i := len(mp.States) - 1; i >= 0; i-- {
		if mp.States[i].EntityID == entityID {
			return mp.States[i], true
		}
	}
	return MockState{}, false
}

// MockTimeSource returns a fixed time in the requested location.
type MockTimeSource struct {
	When time.Time
}

func (ts MockTimeSource) NowIn(loc *time.Location) time.Time {
	return ts.When.In(loc)
}
