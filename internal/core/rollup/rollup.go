// Package rollup aggregates flats into bucketed outputs and run summaries
package rollup

import (
	"sort"
	"time"

	"osmwatch/internal/core/bucket"
	"osmwatch/internal/core/changeset"
)

// TopN is the contributor leaderboard depth reported after each run
const TopN = 10

// Weekly buckets changesets by the Monday of their week
// changesets without a bounding box are skipped; input order is preserved per key
func Weekly(cs []changeset.Changeset) map[string][]changeset.Flat {
	out := make(map[string][]changeset.Flat)
	for _, c := range cs {
		f, ok := changeset.Flatten(c)
		if !ok {
			continue
		}
		k := bucket.WeekStart(c.CreatedAt)
		out[k] = append(out[k], f)
	}
	return out
}

// Monthly buckets flats by month key, preserving input order per key
func Monthly(fs []changeset.Flat) map[string][]changeset.Flat {
	out := make(map[string][]changeset.Flat)
	for _, f := range fs {
		k := bucket.MonthKey(f.CreatedAt)
		out[k] = append(out[k], f)
	}
	return out
}

// Flatten folds bucketed flats back into one slice ordered by creation time
// ties keep the per bucket order
func Flatten(buckets map[string][]changeset.Flat) []changeset.Flat {
	keys := make([]string, 0, len(buckets))
	n := 0
	for k, fs := range buckets {
		keys = append(keys, k)
		n += len(fs)
	}
	sort.Strings(keys)

	out := make([]changeset.Flat, 0, n)
	for _, k := range keys {
		out = append(out, buckets[k]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// TopContributors counts changesets per user and returns the n busiest
// ordering matches Summarize: count descending, then name ascending
// n <= 0 falls back to TopN
func TopContributors(fs []changeset.Flat, n int) []Contributor {
	if n <= 0 {
		n = TopN
	}
	byUser := map[string]int{}
	for _, f := range fs {
		byUser[f.User]++
	}
	top := make([]Contributor, 0, len(byUser))
	for user, c := range byUser {
		top = append(top, Contributor{User: user, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].User < top[j].User
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// Contributor is one leaderboard row
type Contributor struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

// CityCount is one row of the per city breakdown
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// Summary describes one batch run end to end
type Summary struct {
	Total         int           `json:"total"`
	UsersWithData int           `json:"users_with_data"`
	RosterSize    int           `json:"roster_size"`
	From          time.Time     `json:"from"`
	To            time.Time     `json:"to"`
	Buckets       int           `json:"buckets"`
	Cities        []CityCount   `json:"cities"`
	Top           []Contributor `json:"top_contributors"`
}

// Summarize folds flats into the end of run summary
// ordering is deterministic: count descending, then name ascending
func Summarize(fs []changeset.Flat, rosterSize, buckets int) Summary {
	agg := newAgg(rosterSize, buckets)
	for _, f := range fs {
		agg.add(f.User, f.City, f.CreatedAt)
	}
	return agg.summary()
}

// SummarizeChangesets is the changeset level variant for the REST path
// boxless changesets count toward totals and range but carry no city
func SummarizeChangesets(cs []changeset.Changeset, rosterSize, buckets int) Summary {
	agg := newAgg(rosterSize, buckets)
	for _, c := range cs {
		agg.add(c.User, c.City, c.CreatedAt)
	}
	return agg.summary()
}

type agg struct {
	s      Summary
	byUser map[string]int
	byCity map[string]int
	seen   bool
}

func newAgg(rosterSize, buckets int) *agg {
	return &agg{
		s:      Summary{RosterSize: rosterSize, Buckets: buckets},
		byUser: map[string]int{},
		byCity: map[string]int{},
	}
}

func (a *agg) add(user, city string, created time.Time) {
	a.s.Total++
	a.byUser[user]++
	if city != "" {
		a.byCity[city]++
	}
	if !a.seen || created.Before(a.s.From) {
		a.s.From = created
	}
	if created.After(a.s.To) {
		a.s.To = created
	}
	a.seen = true
}

func (a *agg) summary() Summary {
	s := a.s
	s.UsersWithData = len(a.byUser)

	for city, n := range a.byCity {
		s.Cities = append(s.Cities, CityCount{City: city, Count: n})
	}
	sort.Slice(s.Cities, func(i, j int) bool {
		if s.Cities[i].Count != s.Cities[j].Count {
			return s.Cities[i].Count > s.Cities[j].Count
		}
		return s.Cities[i].City < s.Cities[j].City
	})

	for user, n := range a.byUser {
		s.Top = append(s.Top, Contributor{User: user, Count: n})
	}
	sort.Slice(s.Top, func(i, j int) bool {
		if s.Top[i].Count != s.Top[j].Count {
			return s.Top[i].Count > s.Top[j].Count
		}
		return s.Top[i].User < s.Top[j].User
	})
	if len(s.Top) > TopN {
		s.Top = s.Top[:TopN]
	}

	return s
}
