package repository_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/BrainTwoPoint0/nexus-sub002/internal/adapters/repository"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleScore(candidateID, jobID string, overall int, at time.Time) model.MatchScore {
	return model.MatchScore{
		CandidateID:     candidateID,
		JobID:           jobID,
		SkillsScore:     overall,
		ExperienceScore: overall,
		SectorScore:     overall,
		LocationScore:   overall,
		OverallScore:    overall,
		Explanation:     "test score",
		CalculatedAt:    at,
	}
}

func TestMemoryStore_UpsertAndGet(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()
		now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

		Convey("When a score is upserted", func() {
			err := store.Upsert(ctx, sampleScore("cand-1", "job-1", 75, now))
			So(err, ShouldBeNil)

			Convey("Then it can be read back", func() {
				got, err := store.Get(ctx, "cand-1", "job-1")
				So(err, ShouldBeNil)
				So(got.OverallScore, ShouldEqual, 75)
				So(got.CalculatedAt.Equal(now), ShouldBeTrue)
			})

			Convey("And upserting the same pair overwrites the whole record", func() {
				later := now.Add(time.Hour)
				err := store.Upsert(ctx, sampleScore("cand-1", "job-1", 90, later))
				So(err, ShouldBeNil)

				got, err := store.Get(ctx, "cand-1", "job-1")
				So(err, ShouldBeNil)
				So(got.OverallScore, ShouldEqual, 90)
				So(got.CalculatedAt.Equal(later), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When getting a pair that was never scored", func() {
			_, err := store.Get(ctx, "cand-x", "job-x")

			Convey("Then it should signal not found", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When upserting with an empty id", func() {
			err := store.Upsert(ctx, sampleScore("", "job-1", 50, now))

			Convey("Then it should reject the key", func() {
				So(err, ShouldWrap, repository.ErrInvalidKey)
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			err := store.Upsert(cancelled, sampleScore("cand-1", "job-1", 75, now))

			Convey("Then the write should not happen", func() {
				So(err, ShouldNotBeNil)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestMemoryStore_ListInWindow(t *testing.T) {
	Convey("Given a store with scores across several days", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()
		base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

		So(store.Upsert(ctx, sampleScore("cand-1", "job-1", 85, base)), ShouldBeNil)
		So(store.Upsert(ctx, sampleScore("cand-2", "job-1", 65, base.AddDate(0, 0, 2))), ShouldBeNil)
		So(store.Upsert(ctx, sampleScore("cand-3", "job-1", 40, base.AddDate(0, 0, 10))), ShouldBeNil)

		Convey("When listing a window covering the first two", func() {
			scores, err := store.ListInWindow(ctx, base, base.AddDate(0, 0, 5))
			So(err, ShouldBeNil)

			Convey("Then only scores inside [from, to) are returned", func() {
				So(len(scores), ShouldEqual, 2)
			})
		})

		Convey("When the window start is exclusive of the upper bound", func() {
			scores, err := store.ListInWindow(ctx, base, base.AddDate(0, 0, 2))
			So(err, ShouldBeNil)
			So(len(scores), ShouldEqual, 1)
		})

		Convey("When the window matches nothing", func() {
			scores, err := store.ListInWindow(ctx, base.AddDate(0, 1, 0), base.AddDate(0, 2, 0))
			So(err, ShouldBeNil)
			So(scores, ShouldBeEmpty)
		})
	})
}

func TestMemoryStore_ConcurrentUpserts(t *testing.T) {
	Convey("Given concurrent writers to the same pair", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()
		now := time.Now().UTC()

		done := make(chan error, 20)
		for i := 0; i < 20; i++ {
			go func(overall int) {
				done <- store.Upsert(ctx, sampleScore("cand-1", "job-1", overall, now))
			}(50 + i%2)
		}
		for i := 0; i < 20; i++ {
			So(<-done, ShouldBeNil)
		}

		Convey("Then last-write-wins leaves exactly one record", func() {
			So(store.Count(ctx), ShouldEqual, 1)
			got, err := store.Get(ctx, "cand-1", "job-1")
			So(err, ShouldBeNil)
			So(got.OverallScore, ShouldBeIn, 50, 51)
		})
	})
}
