package metrics_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/account-rotator/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError, // Suppress logs in tests
		}))
		ctx, cancel = context.WithCancel(context.Background())
		collector = metrics.NewCollector(100, log)
	})

	AfterEach(func() {
		cancel()
		time.Sleep(10 * time.Millisecond) // Allow goroutine to finish
	})

	Describe("NewCollector", func() {
		It("should create a collector with specified buffer size", func() {
			c := metrics.NewCollector(500, log)
			Expect(c).NotTo(BeNil())
		})
	})

	Describe("EventChannel", func() {
		It("should return a write-only channel", func() {
			ch := collector.EventChannel()
			Expect(ch).NotTo(BeNil())
		})
	})

	Describe("Start and event processing", func() {
		It("should process EventAccountSelected", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.Event{
				Type:      metrics.EventAccountSelected,
				Timestamp: time.Now(),
				AccountID: 0,
			}

			Eventually(func() int64 {
				return collector.Snapshot().Accounts[0].Selections
			}).Should(Equal(int64(1)))
		})

		It("should process EventFailureReported", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.Event{
				Type:       metrics.EventFailureReported,
				Timestamp:  time.Now(),
				AccountID:  1,
				StatusCode: 429,
			}

			Eventually(func() int64 {
				return collector.Snapshot().Accounts[1].Failures
			}).Should(Equal(int64(1)))

			Expect(collector.Snapshot().Accounts[1].StatusCodes[429]).To(Equal(int64(1)))
		})

		It("should process EventStoreError", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.Event{
				Type:      metrics.EventStoreError,
				Timestamp: time.Now(),
			}

			Eventually(func() int64 {
				return collector.Snapshot().StoreErrors
			}).Should(Equal(int64(1)))
		})

		It("should process multiple events in sequence", func() {
			collector.Start(ctx)

			events := []metrics.Event{
				{
					Type:      metrics.EventAccountSelected,
					Timestamp: time.Now(),
					AccountID: 0,
				},
				{
					Type:       metrics.EventFailureReported,
					Timestamp:  time.Now(),
					AccountID:  0,
					StatusCode: 503,
				},
				{
					Type:      metrics.EventAccountSelected,
					Timestamp: time.Now(),
					AccountID: 1,
					Saturated: true,
				},
			}

			for _, event := range events {
				collector.EventChannel() <- event
			}

			Eventually(func() int64 {
				return collector.Snapshot().TotalSelections
			}).Should(Equal(int64(2)))

			snap := collector.Snapshot()
			Expect(snap.Accounts[0].Failures).To(Equal(int64(1)))
			Expect(snap.Accounts[0].StatusCodes[503]).To(Equal(int64(1)))
			Expect(snap.SaturatedSelections).To(Equal(int64(1)))
		})

		It("should drain events on context cancellation", func() {
			collector.Start(ctx)

			// Send events before cancellation
			for i := 0; i < 5; i++ {
				collector.EventChannel() <- metrics.Event{
					Type:      metrics.EventAccountSelected,
					Timestamp: time.Now(),
					AccountID: 0,
				}
			}

			cancel()

			Eventually(func() int64 {
				return collector.Snapshot().Accounts[0].Selections
			}).Should(Equal(int64(5)))
		})
	})

	Describe("Handler", func() {
		It("should return a valid http.HandlerFunc", func() {
			handler := collector.Handler()
			Expect(handler).NotTo(BeNil())
		})
	})
})
