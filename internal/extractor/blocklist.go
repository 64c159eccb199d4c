package extractor

import (
	"sort"
	"strings"
)

// Blocklist is an ordered list of substrings whose presence disqualifies a URL.
// Matching is plain case-sensitive containment; no host parsing is done.
type Blocklist []string

// DefaultBlocklist returns a fresh copy of the built-in denylist of domains
// that are cited often in software-engineering papers but never host artifacts.
func DefaultBlocklist() Blocklist {
	return Blocklist{
		"reddit.com",
		"wikipedia.org",
		"stackoverflow.com",
		".acm.org",
		"scitools.com",
		"debian.org",
		"heroku.com",
		"bower.io",
		"arxiv.org",
		"android.com",
		"haskell.org",
		"docker.io",
		"cloudbees.com",
		"jenkins.io",
		"travis-ci.org",
		"yaml.org",
		"crunchbase.com",
		"circleci.com",
		"appveyor.com",
		"google.com",
		"lamdu.org",
		"unisonweb.org",
		"doi.org",
	}
}

// Match returns the first entry contained in url.
func (b Blocklist) Match(url string) (string, bool) {
	for _, term := range b {
		if term != "" && strings.Contains(url, term) {
			return term, true
		}
	}

	return "", false
}

// Blocks reports whether any entry occurs in url.
func (b Blocklist) Blocks(url string) bool {
	_, blocked := b.Match(url)
	return blocked
}

// ResultSet holds the distinct accepted URLs. Only membership is tracked.
type ResultSet map[string]struct{}

// Add inserts url into the set.
func (s ResultSet) Add(url string) {
	s[url] = struct{}{}
}

// Contains reports whether url is in the set.
func (s ResultSet) Contains(url string) bool {
	_, ok := s[url]
	return ok
}

// Merge adds every member of other.
func (s ResultSet) Merge(other ResultSet) {
	for url := range other {
		s[url] = struct{}{}
	}
}

// Sorted returns the members in lexical order for deterministic output.
func (s ResultSet) Sorted() []string {
	urls := make([]string, 0, len(s))
	for url := range s {
		urls = append(urls, url)
	}

	sort.Strings(urls)

	return urls
}
