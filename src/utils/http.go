package utils

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// transport timeout for scrape requests, independent of the batch-level
// computation timeout
const requestTimeout = 10 * time.Second

// Get fetches url with the supplied headers.
func Get(url string, headers map[string]string) ([]byte, error) {
	client := http.Client{
		Timeout: requestTimeout,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client Get: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, getErr := client.Do(req)
	if getErr != nil {
		return nil, fmt.Errorf("getErr Get: %w", getErr)
	}

	if res.Body != nil {
		defer res.Body.Close()
	}

	body, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, fmt.Errorf("readErr Get: %w", readErr)
	}

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("Get %s: status %d", url, res.StatusCode)
	}

	return body, nil
}

// Post sends a JSON body to url and returns the response body.
func Post(url string, headers map[string]string, body []byte) ([]byte, error) {
	client := http.Client{
		Timeout: requestTimeout,
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("client Post: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, postErr := client.Do(req)
	if postErr != nil {
		return nil, fmt.Errorf("postErr Post: %w", postErr)
	}

	if res.Body != nil {
		defer res.Body.Close()
	}

	resBody, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, fmt.Errorf("readErr Post: %w", readErr)
	}

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("Post %s: status %d", url, res.StatusCode)
	}

	return resBody, nil
}

// PickUserAgent returns a random user agent from the pool, or "" when the
// pool is empty.
func PickUserAgent(agents []string) string {
	if len(agents) == 0 {
		return ""
	}

	return agents[rand.Intn(len(agents))]
}
