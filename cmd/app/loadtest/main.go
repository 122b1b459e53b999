package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pvzzle/chainlens/internal/catalog"
	"github.com/pvzzle/chainlens/internal/dashboard"

	"golang.org/x/time/rate"
)

func main() {
	var (
		api     = flag.String("api", dashboard.DefaultBaseURL, "gateway base URL")
		dur     = flag.Duration("dur", 60*time.Second, "test duration")
		warmup  = flag.Duration("warmup", 5*time.Second, "warmup duration (not counted)")
		avgRPS  = flag.Int("avg-rps", 20, "avg RPS")
		peakRPS = flag.Int("peak-rps", 100, "peak RPS (during ramp)")
		ramp    = flag.Duration("ramp", 10*time.Second, "ramp-up duration to peak")
		mix     = flag.String("skills", "gas,token,portfolio,risk,tx", "comma separated skills to cycle through")
		workers = flag.Int("workers", 32, "concurrent workers")
	)
	flag.Parse()

	ctx := context.Background()

	client := dashboard.New(*api)
	if !client.Healthy(ctx) {
		fmt.Fprintf(os.Stderr, "gateway at %s is not answering\n", client.BaseURL())
		os.Exit(1)
	}

	cat, err := client.Catalog(ctx)
	if err != nil {
		panic(err)
	}
	pattern, err := skillPattern(cat, *mix)
	if err != nil {
		panic(err)
	}

	fmt.Println("starting warmup:", *warmup)
	runPhase(ctx, client, pattern, *workers, *avgRPS, *avgRPS, 0, *warmup, false)

	fmt.Println("starting measured test:", *dur)
	res := runPhase(ctx, client, pattern, *workers, *avgRPS, *peakRPS, *ramp, *dur, true)

	printReport(res)
}

func skillPattern(cat catalog.Catalog, mix string) ([]catalog.Skill, error) {
	var out []catalog.Skill
	for _, name := range strings.Split(mix, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s, ok := cat.Find(name)
		if !ok {
			return nil, fmt.Errorf("unknown skill %q", name)
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no skills selected")
	}
	return out, nil
}

type results struct {
	totalOps   uint64
	okOps      uint64
	clientErrs uint64          // 4xx
	serverErrs uint64          // 5xx
	errOps     uint64          // no answer
	latencies  []time.Duration // measured 2xx only
	startedAt  time.Time
	finishedAt time.Time
}

func runPhase(
	ctx context.Context,
	client *dashboard.Client,
	pattern []catalog.Skill,
	workers int,
	avgRPS int,
	peakRPS int,
	ramp time.Duration,
	dur time.Duration,
	collect bool,
) *results {
	ctx, cancel := context.WithTimeout(ctx, dur)
	defer cancel()

	// If ramp == 0 => constant avgRPS
	lim := rate.NewLimiter(rate.Limit(avgRPS), avgRPS)

	jobs := make(chan catalog.Skill, 1024)

	var (
		res = &results{}
		mu  sync.Mutex
	)

	res.startedAt = time.Now()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano()))
			for s := range jobs {
				out, err := client.Call(ctx, dashboard.ExpandEndpoint(s, sampleParam(s, r)))

				atomic.AddUint64(&res.totalOps, 1)
				switch {
				case err != nil:
					atomic.AddUint64(&res.errOps, 1)
					continue
				case out.Status >= 500:
					atomic.AddUint64(&res.serverErrs, 1)
					continue
				case out.Status >= 400:
					atomic.AddUint64(&res.clientErrs, 1)
					continue
				}
				atomic.AddUint64(&res.okOps, 1)
				if collect {
					mu.Lock()
					res.latencies = append(res.latencies, out.Duration)
					mu.Unlock()
				}
			}
		}()
	}

	// producer
	go func() {
		defer close(jobs)

		idx := 0
		rampStart := time.Now()

		for {
			if err := lim.Wait(ctx); err != nil {
				return
			}

			if ramp > 0 {
				el := time.Since(rampStart)
				if el < ramp {
					// linear from avgRPS -> peakRPS
					cur := float64(avgRPS) + (float64(peakRPS-avgRPS) * (float64(el) / float64(ramp)))
					lim.SetLimit(rate.Limit(cur))
				} else {
					lim.SetLimit(rate.Limit(peakRPS))
				}
			}

			jobs <- pattern[idx]
			idx++
			if idx == len(pattern) {
				idx = 0
			}
		}
	}()

	wg.Wait()
	res.finishedAt = time.Now()
	return res
}

var symbols = []string{"ETH", "WETH", "USDC", "USDT", "DAI"}

// sampleParam returns a random well-formed value for the skill's path parameter.
func sampleParam(s catalog.Skill, r *rand.Rand) string {
	switch s.Param() {
	case "address":
		return fmt.Sprintf("0x%040x", r.Uint64())
	case "symbol":
		return symbols[r.Intn(len(symbols))]
	case "hash":
		return fmt.Sprintf("0x%064x", r.Uint64())
	default:
		return ""
	}
}

func printReport(res *results) {
	d := res.finishedAt.Sub(res.startedAt)
	total := atomic.LoadUint64(&res.totalOps)

	fmt.Printf("\n== REPORT ==\n")
	fmt.Printf("duration: %s\n", d)
	fmt.Printf("calls: total=%d ok=%d 4xx=%d 5xx=%d failed=%d\n",
		total,
		atomic.LoadUint64(&res.okOps),
		atomic.LoadUint64(&res.clientErrs),
		atomic.LoadUint64(&res.serverErrs),
		atomic.LoadUint64(&res.errOps),
	)
	if d > 0 {
		fmt.Printf("throughput: %.2f calls/s\n", float64(total)/d.Seconds())
	}
	if len(res.latencies) == 0 {
		fmt.Println("no latency samples")
		return
	}
	sort.Slice(res.latencies, func(i, j int) bool { return res.latencies[i] < res.latencies[j] })
	p := func(q float64) time.Duration {
		i := int(q * float64(len(res.latencies)-1))
		return res.latencies[i]
	}
	fmt.Printf("latency p50=%s p95=%s p99=%s max=%s\n",
		p(0.50), p(0.95), p(0.99), res.latencies[len(res.latencies)-1],
	)
}
