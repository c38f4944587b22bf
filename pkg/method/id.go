// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package method

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewInstanceID generates a new plugin instance id.
func NewInstanceID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseInstanceID parses an instance id string.
func ParseInstanceID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid instance id %q: %w", s, err)
	}
	return id, nil
}
