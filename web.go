package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// processWebRoot counts a JSON document served over HTTP. With
// --traverse-links an HTML page (a dataset index or directory listing) is
// crawled for links to .json files up to --link-depth.
func processWebRoot(rootURL string, rules []probeRule) ([]FileStat, error) {
	maxDepth := 0
	if traverseLinks {
		maxDepth = linkDepth
	}

	visited := make(map[string]bool)
	stats, err := fetchWebStats(rootURL, 0, maxDepth, visited, rules)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("no JSON content found at %s (use --traverse-links for HTML index pages)", rootURL)
	}
	return stats, nil
}

// fetchWebStats fetches one URL and recurses into its links while below
// maxDepth. Visited URLs are tracked to avoid loops.
func fetchWebStats(startURL string, currentDepth, maxDepth int, visited map[string]bool, rules []probeRule) ([]FileStat, error) {
	parsedURL, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", startURL, err)
	}
	parsedURL.Fragment = ""
	cleanURL := parsedURL.String()

	if currentDepth > maxDepth {
		return nil, nil
	}
	if visited[cleanURL] {
		return nil, nil
	}
	visited[cleanURL] = true

	logrus.Debugf("Fetching URL (depth %d): %s", currentDepth, cleanURL)

	res, err := http.Get(cleanURL)
	if err != nil {
		logrus.Warnf("Failed to fetch URL %s: %v", cleanURL, err)
		return nil, nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		logrus.Warnf("Failed to fetch URL %s: status code %d", cleanURL, res.StatusCode)
		return nil, nil
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		logrus.Warnf("Failed to read response body from %s: %v", cleanURL, err)
		return nil, nil
	}

	contentType := strings.ToLower(res.Header.Get("Content-Type"))

	if strings.Contains(contentType, "json") || strings.HasSuffix(parsedURL.Path, jsonExt) {
		stat := FileStat{Path: cleanURL, Size: int64(len(bodyBytes))}
		stat.Entries, stat.Err = countEntries(bodyBytes, rules)
		return []FileStat{stat}, nil
	}

	if !strings.Contains(contentType, "text/html") {
		logrus.Debugf("Skipping non-JSON, non-HTML content type (%s) for URL: %s", contentType, cleanURL)
		return nil, nil
	}
	if currentDepth >= maxDepth {
		return nil, nil
	}

	// HTML index page: follow its links.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(bodyBytes)))
	if err != nil {
		logrus.Warnf("Failed to parse HTML for link extraction from %s: %v", cleanURL, err)
		return nil, nil
	}

	var stats []FileStat
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		link, exists := s.Attr("href")
		if !exists || link == "" || strings.HasPrefix(link, "#") ||
			strings.HasPrefix(strings.ToLower(link), "mailto:") ||
			strings.HasPrefix(strings.ToLower(link), "javascript:") {
			return
		}

		resolvedURL, err := parsedURL.Parse(link)
		if err != nil {
			logrus.Warnf("Could not resolve relative link '%s' on page %s: %v", link, cleanURL, err)
			return
		}
		if resolvedURL.Scheme != "http" && resolvedURL.Scheme != "https" {
			return
		}
		// Only descend into JSON files and further index pages.
		if path.Ext(resolvedURL.Path) != "" && path.Ext(resolvedURL.Path) != jsonExt && path.Ext(resolvedURL.Path) != ".html" {
			return
		}

		linked, _ := fetchWebStats(resolvedURL.String(), currentDepth+1, maxDepth, visited, rules)
		stats = append(stats, linked...)
	})

	return stats, nil
}
