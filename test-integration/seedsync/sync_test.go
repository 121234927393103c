package integration

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	seedapp "github.com/stacklok/seedsync/internal/app"
	"github.com/stacklok/seedsync/internal/config"
	"github.com/stacklok/seedsync/internal/sources"
	"github.com/stacklok/seedsync/internal/status"
	"github.com/stacklok/seedsync/internal/storage"
	pkgsync "github.com/stacklok/seedsync/internal/sync"
	"github.com/stacklok/seedsync/test-integration/seedsync/helpers"
)

const (
	firstEvent  int64 = 1001
	secondEvent int64 = 1002
)

var _ = Describe("Seeding sync", func() {
	var (
		platform  *helpers.FakePlatform
		tempDir   string
		statusDir string
		app       *seedapp.SeedSyncApp
	)

	// seeds returns the stored seed of every competitor of the event keyed by platform user id
	seeds := func(eventID int64) map[string]int {
		store := app.Components().Store

		event, err := store.GetEventByExternalID(ctx, eventID)
		Expect(err).NotTo(HaveOccurred())
		assignments, err := store.ListSeedAssignments(ctx, event.ID)
		Expect(err).NotTo(HaveOccurred())

		out := map[string]int{}
		for _, user := range []string{"u-alice", "u-bob", "u-carol", "u-dave"} {
			c, err := store.GetCompetitorByExternalUserID(ctx, user)
			if err != nil {
				Expect(err).To(MatchError(storage.ErrNotFound))
				continue
			}
			for _, a := range assignments {
				if a.CompetitorID == c.ID {
					out[user] = a.Seed
				}
			}
		}
		return out
	}

	BeforeEach(func() {
		platform = helpers.NewFakePlatform()
		tempDir = createTempDir("seedsync-integration-")
		statusDir = filepath.Join(tempDir, "status")

		configPath, err := helpers.WriteConfig(tempDir, platform.URL(), statusDir, 2)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
		Expect(err).NotTo(HaveOccurred())

		app, err = seedapp.NewSeedSyncApp(ctx, seedapp.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())

		platform.SetEvent(firstEvent, helpers.FakeEvent{
			Name:           "Singles",
			TournamentID:   77,
			TournamentName: "Spring Major",
			Entrants: []helpers.FakeEntrant{
				{ID: 1, Name: "Alice", Seed: 1, UserID: "u-alice"},
				{ID: 2, Name: "Bob", Seed: 2, UserID: "u-bob"},
				{ID: 3, Name: "Carol", Seed: 3, UserID: "u-carol"},
			},
		})
	})

	AfterEach(func() {
		Expect(app.Close(ctx)).To(Succeed())
		platform.Close()
		cleanupTempDir(tempDir)
	})

	Context("when syncing a new event", func() {
		It("stores every entrant across pages with its claimed seed", func() {
			outcomes, err := app.Run(ctx, []pkgsync.Request{{EventID: firstEvent}})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(1))
			Expect(outcomes[0].Err).NotTo(HaveOccurred())

			result := outcomes[0].Result
			Expect(result.Phase).To(Equal(status.SyncPhaseDone))
			Expect(result.Fetched).To(Equal(3))
			Expect(result.Created).To(Equal(3))
			Expect(result.Conflicts).To(BeZero())

			Expect(seeds(firstEvent)).To(Equal(map[string]int{"u-alice": 1, "u-bob": 2, "u-carol": 3}))
			Expect(platform.Requests(firstEvent)).To(Equal(2))
			Expect(platform.Tokens()).To(HaveEach("Bearer " + helpers.TestToken))
		})

		It("records the final status in the status directory", func() {
			_, err := app.Run(ctx, []pkgsync.Request{{EventID: firstEvent}})
			Expect(err).NotTo(HaveOccurred())

			Expect(filepath.Join(statusDir, "1001", "status.json")).To(BeAnExistingFile())

			statuses, err := app.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(statuses).To(HaveKey(firstEvent))
			Expect(statuses[firstEvent].Phase).To(Equal(status.SyncPhaseDone))
			Expect(statuses[firstEvent].AssignmentCount).To(Equal(3))
			Expect(statuses[firstEvent].LastSyncTime).NotTo(BeNil())
		})
	})

	Context("when entrants claim the same seed", func() {
		BeforeEach(func() {
			platform.SetEvent(secondEvent, helpers.FakeEvent{
				Name:           "Singles",
				TournamentID:   78,
				TournamentName: "Summer Major",
				Entrants: []helpers.FakeEntrant{
					{ID: 11, Name: "Bob", Seed: 1, UserID: "u-bob"},
					{ID: 12, Name: "Alice", Seed: 1, UserID: "u-alice"},
					{ID: 13, Name: "Dave", Seed: 3, UserID: "u-dave"},
				},
			})
		})

		It("keeps the seed for the competitor with the stronger history", func() {
			outcomes, err := app.Run(ctx, []pkgsync.Request{{EventID: firstEvent}, {EventID: secondEvent}})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(2))

			result := outcomes[1].Result
			Expect(outcomes[1].Err).NotTo(HaveOccurred())
			Expect(result.Conflicts).To(Equal(1))
			Expect(result.Reassigned).To(Equal(1))

			Expect(seeds(secondEvent)).To(Equal(map[string]int{"u-alice": 1, "u-bob": 2, "u-dave": 3}))
		})

		It("falls back to response order without history", func() {
			outcomes, err := app.Run(ctx, []pkgsync.Request{{EventID: secondEvent}})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].Err).NotTo(HaveOccurred())

			Expect(seeds(secondEvent)).To(Equal(map[string]int{"u-bob": 1, "u-alice": 2, "u-dave": 3}))
		})
	})

	Context("when the event is already seeded", func() {
		BeforeEach(func() {
			_, err := app.Run(ctx, []pkgsync.Request{{EventID: firstEvent}})
			Expect(err).NotTo(HaveOccurred())
		})

		It("skips without contacting the platform", func() {
			before := platform.Requests(firstEvent)

			outcomes, err := app.Run(ctx, []pkgsync.Request{{EventID: firstEvent}})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].Result.Phase).To(Equal(status.SyncPhaseSkipped))
			Expect(platform.Requests(firstEvent)).To(Equal(before))
		})

		It("replaces the seeding when forced", func() {
			platform.SetEvent(firstEvent, helpers.FakeEvent{
				Name:           "Singles",
				TournamentID:   77,
				TournamentName: "Spring Major",
				Entrants: []helpers.FakeEntrant{
					{ID: 3, Name: "Carol", Seed: 1, UserID: "u-carol"},
					{ID: 1, Name: "Alice", Seed: 2, UserID: "u-alice"},
				},
			})

			outcomes, err := app.Run(ctx, []pkgsync.Request{{EventID: firstEvent, Force: true}})
			Expect(err).NotTo(HaveOccurred())

			result := outcomes[0].Result
			Expect(result.Phase).To(Equal(status.SyncPhaseDone))
			Expect(result.Cleared).To(Equal(3))
			Expect(result.Created).To(Equal(2))
			Expect(seeds(firstEvent)).To(Equal(map[string]int{"u-carol": 1, "u-alice": 2}))
		})
	})

	Context("when the platform misbehaves", func() {
		It("waits out a rate limit and retries the same page", func() {
			platform.RateLimit(firstEvent, 1)

			outcomes, err := app.Run(ctx, []pkgsync.Request{{EventID: firstEvent}})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].Err).NotTo(HaveOccurred())
			Expect(outcomes[0].Result.Created).To(Equal(3))
			Expect(platform.Requests(firstEvent)).To(Equal(3))
		})

		It("fails an unknown event and continues the batch", func() {
			outcomes, err := app.Run(ctx, []pkgsync.Request{{EventID: 4040}, {EventID: firstEvent}})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(2))

			Expect(outcomes[0].Err).To(MatchError(sources.ErrEventNotFound))
			Expect(outcomes[1].Failed()).To(BeFalse())

			statuses, err := app.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(statuses[4040].Phase).To(Equal(status.SyncPhaseFailed))
			Expect(statuses[4040].AttemptCount).To(Equal(1))

			_, err = os.Stat(filepath.Join(statusDir, "4040", "status.json"))
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
