package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("And all metrics should register on the custom registry", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				// Counters without observations still register; vectors with no
				// label values gather empty, so expect at least the scalar set.
				So(len(families), ShouldBeGreaterThan, 15)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("custom"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("And gathered families should carry the custom namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "custom_engine_")
				}
			})
		})
	})
}

func TestPackageLevelHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording through every helper", func() {
			record := func() {
				RecordScoreComputed()
				RecordScoringError()
				RecordScoringLatency(12.5)
				RecordStoreUpsert()
				RecordStoreError()
				RecordStoreUpdateLatency(3.2)
				RecordStoreQueryLatency(1.1)
				UpdateStoredPairs(42)
				RecordCacheHit()
				RecordCacheMiss()
				RecordCacheEviction()
				UpdateQueueSize(7)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.07)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				UpdateWorkerActiveCount(4)
				RecordWorkerError()
				RecordWorkerProcessingLatency(9.9)
				RecordRefreshBatch()
				RecordRefreshPairUpdated()
				RecordRefreshPairSkipped()
				RecordRecommendationRequest("candidates")
				RecordRecommendationRequest("jobs")
				RecordRecommendationLatency(25.0)
				RecordAnalyticsQuery()
				RecordErrorByComponent("store", "upsert_failed")
			}

			Convey("Then none of them should panic", func() {
				So(record, ShouldNotPanic)
			})

			Convey("And the registry should gather without error", func() {
				record()
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
