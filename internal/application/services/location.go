package services

import (
	"net/url"
	"sync"
)

// Location is the addressable location (page URL) the comparison selection is
// mirrored to.
type Location interface {
	// Query returns the current query values and whether the location is ready
	Query() (url.Values, bool)

	// ReplaceQuery replaces the query values
	ReplaceQuery(values url.Values)
}

// URLLocation is a Location backed by a URL
type URLLocation struct {
	mu    sync.RWMutex
	url   *url.URL
	ready bool
}

// NewURLLocation creates a ready location from a raw URL. A bare query string
// such as "?ids=p1,p2" or "ids=p1,p2" is accepted.
func NewURLLocation(raw string) (*URLLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" && u.Host == "" && u.RawQuery == "" && u.Path != "" {
		// "ids=p1,p2" parses as a path
		if values, qerr := url.ParseQuery(u.Path); qerr == nil {
			u = &url.URL{RawQuery: values.Encode()}
		}
	}
	return &URLLocation{url: u, ready: true}, nil
}

// NewPendingLocation creates a location that is not ready until SetURL is called
func NewPendingLocation() *URLLocation {
	return &URLLocation{url: &url.URL{}}
}

// SetURL replaces the URL and marks the location ready
func (l *URLLocation) SetURL(u *url.URL) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := *u
	l.url = &copied
	l.ready = true
}

// Query implements Location
func (l *URLLocation) Query() (url.Values, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.ready {
		return nil, false
	}
	return l.url.Query(), true
}

// ReplaceQuery implements Location
func (l *URLLocation) ReplaceQuery(values url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url.RawQuery = encodeQuery(values)
}

// String returns the current URL
func (l *URLLocation) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.url.String()
}

// encodeQuery is url.Values.Encode but keeps the commas of the ids parameter
// readable, matching what browsers show in the address bar.
func encodeQuery(values url.Values) string {
	encoded := values.Encode()
	if encoded == "" {
		return ""
	}
	out := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		if i+2 < len(encoded) && encoded[i] == '%' && encoded[i+1] == '2' && (encoded[i+2] == 'C' || encoded[i+2] == 'c') {
			out = append(out, ',')
			i += 2
			continue
		}
		out = append(out, encoded[i])
	}
	return string(out)
}
