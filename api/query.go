package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// pageNumber reads ?page=, defaulting to 1. Out-of-range values are clamped by
// catalog.Paginate.
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return n
}

func perPage(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if n > 48 {
		n = 48
	}
	return n
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func queryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// filterQuery is the current query without the page number, for pager links.
func filterQuery(r *http.Request) url.Values {
	q := url.Values{}
	for k, v := range r.URL.Query() {
		if k == "page" || k == "nolazy" {
			continue
		}
		q[k] = v
	}
	return q
}
