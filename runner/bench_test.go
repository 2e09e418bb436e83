package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/probeops/healthprobe/probe"
)

func benchRunner(b *testing.B, probes int) *Runner {
	b.Helper()
	r := New()
	for i := 0; i < probes; i++ {
		p, err := probe.NewFunc(fmt.Sprintf("probe-%03d", i), nil, func(ctx context.Context) (probe.Result, error) {
			return probe.Healthy(""), nil
		})
		if err != nil {
			b.Fatal(err)
		}
		if err := r.Register(p); err != nil {
			b.Fatal(err)
		}
	}
	return r
}

func BenchmarkRun(b *testing.B) {
	for _, probes := range []int{1, 16, 64} {
		b.Run(fmt.Sprintf("probes-%d", probes), func(b *testing.B) {
			r := benchRunner(b, probes)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := r.Run(ctx, Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRun_Bounded(b *testing.B) {
	r := benchRunner(b, 64)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(ctx, Options{MaxConcurrency: 8}); err != nil {
			b.Fatal(err)
		}
	}
}
