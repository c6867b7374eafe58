/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/policydebate/swisstab/tab"
)

// this program exists just to seed the http cache with registration pages
// ahead of tournament day, so roster imports at the venue hit the cache

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <roster-url> [roster-url ...]\n",
			os.Args[0])
		os.Exit(1)
	}

	ctx := context.Background()
	for _, url := range os.Args[1:] {
		details, err := tab.FetchRoster(ctx, url)
		time.Sleep(2 * time.Second) // avoid pegging the registration site
		if err != nil {
			// best effort
			continue
		}

		fmt.Printf("seeded %v (%d teams)\n", url, len(details))
	}
}
