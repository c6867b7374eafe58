/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent      = "swisstab/0.9.0 (+https://github.com/policydebate/swisstab)"
	WebCacheBucket = "policydebate-swisstab-prod-webcache"
	SnapshotBucket = "policydebate-swisstab-prod-data"
	SnapshotKey    = "tournament.json"
)
