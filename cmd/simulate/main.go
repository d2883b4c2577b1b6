// Command simulate estimates how often the normality tests reject samples drawn from a normal process (type I
// error) and from a uniform process (power) at several sample sizes.
package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/BTBurke/spc/pkg/classify"
	"github.com/BTBurke/spc/pkg/normality"
	"github.com/BTBurke/spc/pkg/rng"
)

type sampler func(seed int64) rng.RNG

type key struct {
	process string
	test    normality.Test
	n       int
}

type results struct {
	name string
	mu   sync.Mutex
	val  map[key]float64
}

func (r *results) record(k key, rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.val[k] = rate
}

func newResults(name string) *results {
	return &results{
		name: name,
		val:  make(map[key]float64),
	}
}

func main() {
	loops := pflag.Int("loops", 10000, "Samples drawn for each process and sample size")
	alpha := pflag.Float64("alpha", classify.Alpha, "Significance level")
	out := pflag.String("out", "", "Write results to this file")
	pflag.Parse()

	processes := map[string]sampler{
		"normal":  func(seed int64) rng.RNG { return rng.NewNormalRNG(10, 0.15, seed) },
		"uniform": func(seed int64) rng.RNG { return rng.NewUniformRNG(9.5, 10.5, seed) },
	}
	sizes := []int{10, 25, 50, 125, 250}

	res := newResults("normality")
	start := time.Now()
	var g errgroup.Group
	for name, p := range processes {
		for _, n := range sizes {
			name, p, n := name, p, n
			log.Printf("start process=%s n=%d\n", name, n)
			g.Go(func() error {
				return rejectionRate(res, name, p, n, *loops, *alpha)
			})
		}
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
	fmt.Printf("Time Elapsed: %v\n", time.Since(start))

	keys := make([]key, 0, len(res.val))
	for k := range res.val {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].process != keys[j].process {
			return keys[i].process < keys[j].process
		}
		if keys[i].test != keys[j].test {
			return keys[i].test < keys[j].test
		}
		return keys[i].n < keys[j].n
	})

	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("# %s alpha=%g loops=%d\n", res.name, *alpha, *loops))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%s %s %d %f\n", k.process, k.test, k.n, res.val[k]))
	}
	fmt.Print(b.String())
	if *out != "" {
		if err := ioutil.WriteFile(*out, b.Bytes(), 0644); err != nil {
			log.Fatalf("could not write results: %v", err)
		}
	}
}

func rejectionRate(results *results, process string, p sampler, n int, loops int, alpha float64) error {
	r := p(int64(n))
	rejected := make(map[normality.Test]int)
	sample := make([]float64, n)
	for i := 0; i < loops; i++ {
		for j := range sample {
			sample[j] = r.Rand()
		}
		report, err := normality.Evaluate(sample, alpha)
		if err != nil {
			return fmt.Errorf("process=%s n=%d: %w", process, n, err)
		}
		for _, t := range report.Results() {
			if t.Conclusion == classify.NotNormal {
				rejected[t.Test]++
			}
		}
	}
	for _, t := range []normality.Test{normality.ShapiroWilkTest, normality.AndersonDarlingTest} {
		rate := float64(rejected[t]) / float64(loops)
		fmt.Printf("Result: process=%s test=%s n=%d rate=%1.5f\n", process, t, n, rate)
		results.record(key{process: process, test: t, n: n}, rate)
	}
	return nil
}
