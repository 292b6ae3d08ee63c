package perftests

import (
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"auctioner/internal/models"
)

// LoadScenario defines configurable benchmark parameters
type LoadScenario struct {
	Name         string
	NumTeams     int
	NumSessions  int
	ReadRatio    int  // out of 10
	MaxIncrement int  // in bid steps
	Burst        bool // if true, no delay between ops
}

// OperationMetrics collects latencies safely
type OperationMetrics struct {
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(d time.Duration) {
	om.mu.Lock()
	om.latencies = append(om.latencies, d)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (min, max, avg, p95, p99 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()
	if len(om.latencies) == 0 {
		return
	}
	latencies := om.latencies
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	min = latencies[0]
	max = latencies[len(latencies)-1]

	var total time.Duration
	for _, d := range latencies {
		total += d
	}
	avg = total / time.Duration(len(latencies))
	p95 = latencies[int(0.95*float64(len(latencies)))]
	p99 = latencies[int(0.99*float64(len(latencies)))]
	return
}

// Benchmark_Load_AuctionSystem runs multiple scenarios
func Benchmark_Load_AuctionSystem(b *testing.B) {
	scenarios := []LoadScenario{
		{"Low-Contention-WriteHeavy", 8, 200, 0, 5, false},
		{"High-Contention-WriteHeavy", 8, 2, 0, 2, false},
		{"Mixed-Workload", 8, 50, 7, 3, false},
		{"ReadHeavy", 4, 50, 9, 2, false},
		{"Edge-Case-SingleSession", 2, 1, 5, 1, false},
		{"Peak-Burst", 10, 50, 0, 2, true},
	}

	for _, s := range scenarios {
		b.Run(s.Name, func(b *testing.B) {
			runParallelScenario(b, s)
		})
	}
}

func runParallelScenario(b *testing.B, s LoadScenario) {
	b.ReportAllocs()

	_, svc := setupService(s.NumSessions, s.NumTeams)
	sessions := openSessions(b, svc, s.NumSessions)
	floors := make([]int64, s.NumSessions)

	var totalOps, successfulBids, failedBids, totalReads int64
	sessionSuccess := make([]int64, s.NumSessions)
	metrics := &OperationMetrics{}

	start := time.Now()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

		for pb.Next() {
			idx := rnd.Intn(s.NumSessions)
			opType := rnd.Intn(10)

			opStart := time.Now()
			if opType < s.ReadRatio {
				if _, err := svc.Snapshot(sessions[idx]); err != nil {
					b.Logf("ignored read error: %v", err)
				}
				atomic.AddInt64(&totalReads, 1)
			} else {
				// racing bidders may land below the floor; those rejections are part of the load
				amount := atomic.LoadInt64(&floors[idx]) + 20000 + int64(rnd.Intn(s.MaxIncrement)+1)*bidStep
				req := models.BidRequest{SessionID: sessions[idx], TeamID: teamID(rnd.Intn(s.NumTeams)), Amount: amount}
				if _, err := svc.PlaceBid(admin, req); err != nil {
					atomic.AddInt64(&failedBids, 1)
				} else {
					atomic.AddInt64(&successfulBids, 1)
					atomic.AddInt64(&sessionSuccess[idx], 1)
					atomic.StoreInt64(&floors[idx], amount-20000)
				}
			}

			metrics.Record(time.Since(opStart))
			atomic.AddInt64(&totalOps, 1)

			if !s.Burst {
				time.Sleep(time.Millisecond)
			}
		}
	})

	elapsed := time.Since(start)
	throughput := float64(totalOps) / elapsed.Seconds()
	min, max, avg, p95, p99 := metrics.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	b.Logf(
		"Scenario: %s | Sessions: %d | Total Ops: %d | Success Bids: %d | Failed Bids: %d | Reads: %d | Elapsed: %s | Throughput: %.2f ops/sec | Latency(us) min: %.2f avg: %.2f max: %.2f p95: %.2f p99: %.2f | Memory Alloc: %.2f MB",
		s.Name, s.NumSessions, totalOps, successfulBids, failedBids, totalReads, elapsed,
		throughput,
		float64(min.Microseconds()), float64(avg.Microseconds()), float64(max.Microseconds()),
		float64(p95.Microseconds()), float64(p99.Microseconds()),
		float64(mem.Alloc)/1024/1024,
	)

	for i, v := range sessionSuccess {
		if v > 0 && s.NumSessions <= 10 {
			b.Logf("Session %d successful bids: %d", i, v)
		}
	}
}
