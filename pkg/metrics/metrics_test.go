package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a dedicated registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("ranking"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.sortRequests.WithLabelValues("goals", "desc").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_ranking_sort_requests_total")
			})
		})

		Convey("When empty namespace and subsystem are passed", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "scout")
				So(manager.subsystem, ShouldEqual, "players")
			})
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording ranking metrics", func() {
			before := testutil.ToFloat64(globalManager.sortRequests.WithLabelValues("assists", "asc"))
			RecordSortRequest("assists", "asc")
			RecordInvalidSortOption()
			UpdateSortOptions(27)

			Convey("Then counters and gauges move", func() {
				So(testutil.ToFloat64(globalManager.sortRequests.WithLabelValues("assists", "asc")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.sortOptionsTotal), ShouldEqual, 27)
			})
		})

		Convey("When recording similarity metrics", func() {
			before := testutil.ToFloat64(globalManager.fallbacks.WithLabelValues("nlp", "ok"))
			So(func() {
				RecordSimilarityRequest("hybrid", "ok")
				RecordSimilarityLatency("hybrid", 3.5)
				RecordCandidatePoolSize("statistical", 42)
				RecordStrategyFailure("nlp")
				RecordFallback("nlp", "ok")
			}, ShouldNotPanic)

			Convey("Then the fallback counter increments", func() {
				So(testutil.ToFloat64(globalManager.fallbacks.WithLabelValues("nlp", "ok")), ShouldEqual, before+1)
			})
		})

		Convey("When recording store, ingest, http and system metrics", func() {
			So(func() {
				RecordStoreQueryLatency("memory", "find", 0.2)
				RecordStoreError("postgres", "get")
				UpdateRecordsTotal(2500)
				RecordIngestedRows(100)
				RecordIngestRowErrors(2)
				RecordHTTPRequest("/leaderboard", "GET", "200")
				RecordHTTPRequestDuration("/leaderboard", "GET", "200", 4)
				RecordErrorByEndpoint("/players", "GET", "client_error")
				RecordErrorByType("client_error", "medium")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.recordsTotal), ShouldEqual, 2500)
		})
	})
}

func TestRecordersConcurrently(t *testing.T) {
	Convey("Given many goroutines recording", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordSimilarityRequest("statistical", "ok")
					RecordHTTPRequest("/players", "GET", "200")
				}
			}()
		}
		wg.Wait()

		Convey("Then the registry still gathers", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
