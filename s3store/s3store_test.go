/* Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3store

import (
	"context"
	"strings"
	"testing"
)

func TestCacheKeyToObjectKey(t *testing.T) {
	plain := New(context.Background(), "bucket", false, false)
	gz := New(context.Background(), "bucket", true, false)

	k1 := plain.cacheKeyToObjectKey("https://example.org/roster")
	k2 := plain.cacheKeyToObjectKey("https://example.org/roster")
	if k1 != k2 {
		t.Errorf("object keys not deterministic: %v vs %v", k1, k2)
	}
	if !strings.HasPrefix(k1, "/webcache/") {
		t.Errorf("cache key %v missing webcache prefix", k1)
	}
	if strings.HasSuffix(k1, ".gz") {
		t.Errorf("uncompressed key %v has gz suffix", k1)
	}

	k3 := gz.cacheKeyToObjectKey("https://example.org/roster")
	if !strings.HasSuffix(k3, ".gz") {
		t.Errorf("compressed key %v missing gz suffix", k3)
	}

	k4 := plain.cacheKeyToObjectKey("https://example.org/other")
	if k1 == k4 {
		t.Errorf("distinct keys hashed identically")
	}
}

func TestSnapshotObjectKey(t *testing.T) {
	if got := snapshotObjectKey("tournament.json"); got != "/snapshots/tournament.json" {
		t.Errorf("snapshotObjectKey = %v", got)
	}
}
