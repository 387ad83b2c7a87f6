package cache_test

import (
	"context"
	"testing"
	"time"

	cache "github.com/BrainTwoPoint0/nexus-sub002/internal/cache"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func cachedScore(candidateID, jobID string, overall int) model.MatchScore {
	return model.MatchScore{
		CandidateID:  candidateID,
		JobID:        jobID,
		OverallScore: overall,
		CalculatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	Convey("Given an empty memory cache", t, func() {
		c := cache.NewMemoryCache()
		ctx := context.Background()

		Convey("When a score is cached", func() {
			c.Set(ctx, cachedScore("cand-1", "job-1", 77))

			Convey("Then it can be read back by pair key", func() {
				got, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})
				So(ok, ShouldBeTrue)
				So(got.OverallScore, ShouldEqual, 77)
			})

			Convey("And a different pair misses", func() {
				_, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-2", JobID: "job-1"})
				So(ok, ShouldBeFalse)
			})

			Convey("And setting the same pair replaces the entry", func() {
				c.Set(ctx, cachedScore("cand-1", "job-1", 91))
				got, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})
				So(ok, ShouldBeTrue)
				So(got.OverallScore, ShouldEqual, 91)
				So(c.Len(), ShouldEqual, 1)
			})
		})

		Convey("When an entry is invalidated", func() {
			c.Set(ctx, cachedScore("cand-1", "job-1", 77))
			c.Invalidate(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})

			Convey("Then it misses", func() {
				_, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestMemoryCache_TTL(t *testing.T) {
	Convey("Given a cache with a controllable clock", t, func() {
		now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		c := cache.NewMemoryCache(
			cache.WithTTL(10*time.Minute),
			cache.WithMemoryClock(clock),
		)
		ctx := context.Background()

		c.Set(ctx, cachedScore("cand-1", "job-1", 70))

		Convey("When the entry is still fresh", func() {
			now = now.Add(5 * time.Minute)
			_, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})
			So(ok, ShouldBeTrue)
		})

		Convey("When the TTL has elapsed", func() {
			now = now.Add(11 * time.Minute)
			_, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})

			Convey("Then the entry reads as a miss and is dropped", func() {
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestMemoryCache_Eviction(t *testing.T) {
	Convey("Given a cache bounded to three entries", t, func() {
		c := cache.NewMemoryCache(cache.WithMaxEntries(3))
		ctx := context.Background()

		c.Set(ctx, cachedScore("cand-1", "job-1", 10))
		c.Set(ctx, cachedScore("cand-2", "job-1", 20))
		c.Set(ctx, cachedScore("cand-3", "job-1", 30))

		Convey("When a fourth entry arrives", func() {
			c.Set(ctx, cachedScore("cand-4", "job-1", 40))

			Convey("Then the oldest entry is evicted", func() {
				So(c.Len(), ShouldEqual, 3)
				_, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, model.PairKey{CandidateID: "cand-4", JobID: "job-1"})
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestNopCache(t *testing.T) {
	Convey("Given the no-op cache", t, func() {
		var c cache.Cache = cache.Nop{}
		ctx := context.Background()

		Convey("When storing and reading", func() {
			c.Set(ctx, cachedScore("cand-1", "job-1", 50))
			_, ok := c.Get(ctx, model.PairKey{CandidateID: "cand-1", JobID: "job-1"})

			Convey("Then everything is a miss", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
