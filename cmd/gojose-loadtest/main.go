// Command gojose-loadtest measures sign and decode throughput of the token
// engine under concurrency, reporting ops/sec and latency percentiles per
// phase.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goJose "github.com/MrEthical07/goJose"
	"github.com/MrEthical07/goJose/jwk"
	"github.com/google/uuid"
)

func main() {
	var (
		keys        = flag.Int("keys", 4, "number of HS256 signing keys to register")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (sign + decode)")
		lifetime    = flag.Int64("lifetime", 300, "token lifetime in seconds")
	)
	flag.Parse()

	if *keys <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "keys, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	engine, err := goJose.NewEngine(goJose.Config{
		Metrics: goJose.MetricsConfig{Enabled: true, EnableLatencyHistograms: true},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine setup failed: %v\n", err)
		os.Exit(1)
	}
	for i := 0; i < *keys; i++ {
		secret := make([]byte, 32)
		rand.New(rand.NewSource(int64(i) + 1)).Read(secret)
		key, err := jwk.NewSymmetric("HS256", fmt.Sprintf("load-%d", i), secret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "key setup failed: %v\n", err)
			os.Exit(1)
		}
		if err := engine.AddKey(key); err != nil {
			fmt.Fprintf(os.Stderr, "key setup failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("registered %d HS256 keys\n", *keys)

	tokens := make([]string, *ops)
	signStats := runSignPhase(engine, tokens, *concurrency, *lifetime)
	decodeStats := runDecodePhase(engine, tokens, *concurrency)

	fmt.Println("---- results ----")
	printStats("sign", signStats)
	printStats("decode", decodeStats)

	snapshot := engine.MetricsSnapshot()
	fmt.Printf("engine counters: sign_success=%d decode_success=%d decode_failure=%d\n",
		snapshot.Counters[goJose.MetricSignSuccess],
		snapshot.Counters[goJose.MetricDecodeSuccess],
		snapshot.Counters[goJose.MetricDecodeFailure],
	)
}

func runSignPhase(engine *goJose.Engine, tokens []string, concurrency int, lifetime int64) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, len(tokens))
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= len(tokens) {
					return
				}
				payload := map[string]any{
					"sub": fmt.Sprintf("user-%d", i),
					"jti": uuid.NewString(),
				}
				t0 := time.Now()
				token, err := engine.Sign(payload, goJose.SignOptions{
					Algorithm:        "HS256",
					ExpiresInSeconds: lifetime,
				})
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				} else {
					tokens[i] = token
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runDecodePhase(engine *goJose.Engine, tokens []string, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, len(tokens))
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= len(tokens) {
					return
				}
				token := tokens[r.Intn(len(tokens))]
				t0 := time.Now()
				_, err := engine.Decode(token)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
