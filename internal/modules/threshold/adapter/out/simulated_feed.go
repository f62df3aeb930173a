package out

import (
	"context"
	"math/rand"
	"sync"
	"time"

	thresholdout "thresholdtimer/internal/modules/threshold/port/out"
	"thresholdtimer/internal/platform/clock"
)

type SimulatorOptions struct {
	Interval time.Duration
	Baseline float64
	Spread   float64
	Step     float64
	// Seed fixes the walk; zero seeds from the clock.
	Seed int64
}

// SimulatedFeed emits a bounded random walk around Baseline, one sample per
// Interval, starting immediately.
type SimulatedFeed struct {
	clock clock.Clock
	opts  SimulatorOptions

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSimulatedFeed(clk clock.Clock, opts SimulatorOptions) *SimulatedFeed {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Spread < 0 {
		opts.Spread = -opts.Spread
	}
	return &SimulatedFeed{clock: clk, opts: opts}
}

func (f *SimulatedFeed) RequestPermission(context.Context) bool { return true }

func (f *SimulatedFeed) Start(_ context.Context, onSample thresholdout.SampleFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		return nil
	}
	seed := f.opts.Seed
	if seed == 0 {
		seed = f.clock.Now().UnixNano()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})
	go f.run(ctx, rand.New(rand.NewSource(seed)), onSample, f.done)
	return nil
}

// Stop halts the walk and waits until no sample is in flight.
func (f *SimulatedFeed) Stop() error {
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.cancel, f.done = nil, nil
	f.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (f *SimulatedFeed) run(ctx context.Context, rng *rand.Rand, onSample thresholdout.SampleFunc, done chan struct{}) {
	defer close(done)
	low, high := f.opts.Baseline-f.opts.Spread, f.opts.Baseline+f.opts.Spread
	value := f.opts.Baseline
	for {
		if ctx.Err() != nil {
			return
		}
		onSample(value)
		if err := f.clock.Sleep(ctx, f.opts.Interval); err != nil {
			return
		}
		value += (rng.Float64()*2 - 1) * f.opts.Step
		if value < low {
			value = low
		}
		if value > high {
			value = high
		}
	}
}
