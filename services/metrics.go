package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	candidateQueriesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coolbooks",
		Name:      "candidate_queries_total",
		Help:      "The total number of per-type candidate queries issued, by outcome.",
	}, []string{"outcome"})

	profileLookupsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coolbooks",
		Name:      "profile_lookups_total",
		Help:      "The total number of owner profile lookups, by outcome (found, not_found, error).",
	}, []string{"outcome"})

	listingsCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coolbooks",
		Name:      "listings_created_total",
		Help:      "The total number of listings created.",
	})

	getMatchesHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coolbooks",
		Name:      "get_matches_duration_ms",
		Help:      "The duration (in ms) of a GetMatches call, by outcome.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"outcome"})
)

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
