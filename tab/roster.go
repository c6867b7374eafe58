/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/policydebate/swisstab/internal"
)

// FetchRoster downloads a registration page and parses its entries table
// into team details. Pages are served by the registration site and change
// rarely, so fetches go through the S3-backed web cache.
func FetchRoster(ctx context.Context, url string) ([]TeamDetail, error) {
	client := internal.NewCachedHttpClient(ctx, internal.WebCacheBucket,
		6*time.Hour)
	doc, err := fetchDoc(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch roster page: %w", err)
	}
	return parseRoster(doc)
}

// fetchDoc gets the HTML document at the given URL using the configured
// User-Agent.
func fetchDoc(ctx context.Context, client *http.Client,
	url string) (*goquery.Document, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// parseRoster extracts team entries from the registration table. Expected
// columns: team name, institution, first member, second member, and
// optionally a registration date. Rows without a usable team name are
// skipped.
func parseRoster(doc *goquery.Document) ([]TeamDetail, error) {
	var details []TeamDetail
	doc.Find("table#teams tbody tr").Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		if cells.Length() < 4 {
			return
		}
		name := internal.NormalizeName(cells.Eq(0).Text())
		if name == "" || strings.EqualFold(name, "Team") {
			return
		}
		d := TeamDetail{
			Name:        name,
			Institution: internal.NormalizeName(cells.Eq(1).Text()),
		}
		d.Members[0] = internal.NormalizeName(cells.Eq(2).Text())
		d.Members[1] = internal.NormalizeName(cells.Eq(3).Text())
		if cells.Length() >= 5 {
			// registration sites are inconsistent about date formats;
			// parse leniently and drop unparseable values
			if when, err := internal.ParseDateOrZero(
				strings.TrimSpace(cells.Eq(4).Text())); err == nil {
				d.Registered = when
			}
		}
		details = append(details, d)
	})

	if len(details) == 0 {
		return nil, fmt.Errorf("roster page contained no team entries")
	}
	return details, nil
}
