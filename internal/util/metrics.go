package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GraphQLOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_operations_total",
		Help: "Total number of GraphQL operations executed",
	}, []string{"operation", "status"})

	GraphQLOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphql_operation_duration_seconds",
		Help:    "Latency of GraphQL operation execution",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	RepositoryQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repository_query_duration_seconds",
		Help:    "Latency of repository calls against the catalog database",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	LoaderFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loader_fetches_total",
		Help: "Total number of batched relation fetches issued by the request loader",
	}, []string{"relation"})

	LoaderBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loader_batch_size",
		Help:    "Number of parent ids resolved per relation fetch",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	}, []string{"relation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
