package hid

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mobile-next/hidsynth/utils"
)

// ErrClosed is returned when dispatching through a closed generator.
var ErrClosed = errors.New("generator is closed")

// defaultResultHistory bounds how many finished stream results are kept
// for later lookup by id.
const defaultResultHistory = 128

// Config carries the generator's tunables.
type Config struct {
	// Sink receives compiled steps. Defaults to a discard sink.
	Sink Sink

	// KeepAliveInterval in seconds; 0 disables the heartbeat.
	KeepAliveInterval float64

	// Randomize jitters pressure and contact radii within
	// human-plausible ranges.
	Randomize bool

	// ResultHistory caps the stored async results (default 128).
	ResultHistory int
}

// StreamResult is the terminal outcome of one dispatched stream,
// retrievable by id after asynchronous dispatch.
type StreamResult struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Error   string    `json:"error,omitempty"`
	Steps   int       `json:"steps"`
	Records int       `json:"records"`
	Elapsed float64   `json:"elapsed"`
}

type job struct {
	id        uuid.UUID
	spec      *StreamSpec
	heartbeat bool
	done      chan error
}

// Generator owns the whole synthesis pipeline: the slot registry, the
// compiler, the dispatch sink, and one worker goroutine that drives all
// streams sequentially. Streams never interleave; synchronous calls
// block until their stream has been fully dispatched, asynchronous
// calls return a stream id immediately. A process normally holds
// exactly one Generator.
type Generator struct {
	sink     Sink
	reg      *SlotRegistry
	compiler *Compiler

	queue   chan job
	stop    chan struct{}
	results *lru.Cache[uuid.UUID, StreamResult]

	mu                sync.Mutex
	lockGate          *sync.Cond
	locked            bool
	closed            bool
	keepAliveInterval float64
	lastActivity      time.Time
	randomize         bool

	// used only by the worker goroutine
	rng *rand.Rand

	wg sync.WaitGroup
}

// NewGenerator starts the dispatch worker and, when configured, the
// keep-alive scheduler.
func NewGenerator(cfg Config) *Generator {
	sink := cfg.Sink
	if sink == nil {
		sink = FuncSink(func(Step) {})
	}
	history := cfg.ResultHistory
	if history <= 0 {
		history = defaultResultHistory
	}
	results, _ := lru.New[uuid.UUID, StreamResult](history)

	reg := NewSlotRegistry()
	g := &Generator{
		sink:              sink,
		reg:               reg,
		compiler:          NewCompiler(reg),
		queue:             make(chan job, 64),
		stop:              make(chan struct{}),
		results:           results,
		keepAliveInterval: cfg.KeepAliveInterval,
		lastActivity:      time.Now(),
		randomize:         cfg.Randomize,
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.lockGate = sync.NewCond(&g.mu)

	g.wg.Add(2)
	go g.worker()
	go g.keepAliveLoop()
	return g
}

// Close stops the worker and the keep-alive scheduler. In-flight
// streams are abandoned at the next step boundary.
func (g *Generator) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.locked = false
	g.lockGate.Broadcast()
	g.mu.Unlock()

	close(g.stop)
	g.wg.Wait()
}

// Registry exposes the process-wide slot registry.
func (g *Generator) Registry() *SlotRegistry { return g.reg }

// SetKeepAliveInterval reconfigures the heartbeat; 0 disables it.
func (g *Generator) SetKeepAliveInterval(seconds float64) {
	g.mu.Lock()
	g.keepAliveInterval = seconds
	g.mu.Unlock()
}

// SetRandomize toggles touch parameter jitter.
func (g *Generator) SetRandomize(enabled bool) {
	g.mu.Lock()
	g.randomize = enabled
	g.mu.Unlock()
}

// HardwareLock pauses dispatch before the next step. A running stream
// is stalled, never aborted.
func (g *Generator) HardwareLock() {
	g.mu.Lock()
	g.locked = true
	g.mu.Unlock()
	utils.Verbose("hardware lock acquired")
}

// HardwareUnlock resumes dispatch.
func (g *Generator) HardwareUnlock() {
	g.mu.Lock()
	g.locked = false
	g.lockGate.Broadcast()
	g.mu.Unlock()
	utils.Verbose("hardware lock released")
}

// Locked reports whether the hardware lock is held.
func (g *Generator) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}

// Dispatch compiles and dispatches a stream, blocking the caller until
// every step has been sent or a validation error is reported. No
// partial stream is ever dispatched.
func (g *Generator) Dispatch(spec *StreamSpec) error {
	j := job{id: uuid.New(), spec: spec, done: make(chan error, 1)}
	if err := g.enqueue(j); err != nil {
		return err
	}
	select {
	case err := <-j.done:
		return err
	case <-g.stop:
		return ErrClosed
	}
}

// DispatchAsync enqueues a stream and returns its id immediately. The
// terminal result, including any validation error, is retrievable via
// Result and logged, never silently dropped.
func (g *Generator) DispatchAsync(spec *StreamSpec) (uuid.UUID, error) {
	j := job{id: uuid.New(), spec: spec}
	if err := g.enqueue(j); err != nil {
		return uuid.Nil, err
	}
	return j.id, nil
}

// Result returns the stored outcome of a finished stream.
func (g *Generator) Result(id uuid.UUID) (StreamResult, bool) {
	return g.results.Get(id)
}

func (g *Generator) enqueue(j job) error {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case g.queue <- j:
		return nil
	case <-g.stop:
		return ErrClosed
	}
}

func (g *Generator) worker() {
	defer g.wg.Done()
	for {
		select {
		case j := <-g.queue:
			if j.heartbeat {
				g.runHeartbeat()
			} else {
				g.run(j)
			}
		case <-g.stop:
			return
		}
	}
}

func (g *Generator) run(j job) {
	started := time.Now()

	steps, err := g.compiler.Compile(j.spec)
	if err == nil {
		err = g.dispatchSteps(steps)
	}

	result := StreamResult{
		ID:      j.id,
		Status:  "ok",
		Steps:   len(steps),
		Elapsed: time.Since(started).Seconds(),
	}
	for _, s := range steps {
		result.Records += len(s.Records)
	}
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		result.Steps = 0
		result.Records = 0
		utils.Info("stream %s failed: %v", j.id, err)
	}
	g.results.Add(j.id, result)

	g.mu.Lock()
	g.lastActivity = time.Now()
	g.mu.Unlock()

	if j.done != nil {
		j.done <- err
	}
}

// dispatchSteps paces compiled steps to the sink: the hardware-lock
// gate is checked before each step, and PreciseDelay covers the gap to
// the step's offset. All records of one step go out before time
// advances past its offset.
func (g *Generator) dispatchSteps(steps []Step) error {
	prev := time.Duration(0)
	for _, step := range steps {
		if err := g.gate(); err != nil {
			return err
		}
		if delta := step.Offset - prev; delta > 0 {
			DelayDuration(delta)
		}
		prev = step.Offset

		g.mu.Lock()
		jitter := g.randomize
		g.mu.Unlock()
		if jitter {
			step = g.jitterStep(step)
		}
		g.sink.Send(step)
	}
	return nil
}

// gate blocks while the hardware lock is held.
func (g *Generator) gate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.locked && !g.closed {
		g.lockGate.Wait()
	}
	if g.closed {
		return ErrClosed
	}
	return nil
}

// Human-plausible jitter bounds for synthetic touches.
const (
	basePressure     = 0.25
	pressureJitter   = 0.05
	minPressure      = 0.05
	maxPressure      = 1.0
	radiusJitterFrac = 0.15
	minRadius        = 1.0
)

func (g *Generator) jitterStep(step Step) Step {
	records := make([]TouchRecord, len(step.Records))
	for i, r := range step.Records {
		p := r.Pressure
		if p == 0 {
			p = basePressure
		}
		p += (g.rng.Float64()*2 - 1) * pressureJitter
		r.Pressure = clamp(p, minPressure, maxPressure)

		scale := 1 + (g.rng.Float64()*2-1)*radiusJitterFrac
		r.MajorRadius = clampMin(r.MajorRadius*scale, minRadius)
		r.MinorRadius = clampMin(r.MinorRadius*scale, minRadius)
		records[i] = r
	}
	step.Records = records
	return step
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampMin(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}

// keepAliveLoop fires a heartbeat through the dispatch queue whenever
// no stream has gone out within the configured interval. Because the
// heartbeat rides the same single worker, it can never interleave with
// an in-flight stream.
func (g *Generator) keepAliveLoop() {
	defer g.wg.Done()

	const idlePoll = 50 * time.Millisecond
	for {
		g.mu.Lock()
		interval := g.keepAliveInterval
		last := g.lastActivity
		g.mu.Unlock()

		wait := idlePoll
		if interval > 0 {
			until := time.Until(last.Add(seconds(interval)))
			if until > 0 && until < wait {
				wait = until
			}
		}

		select {
		case <-g.stop:
			return
		case <-time.After(wait):
		}

		g.mu.Lock()
		interval = g.keepAliveInterval
		due := interval > 0 && time.Since(g.lastActivity) >= seconds(interval)
		g.mu.Unlock()
		if !due {
			continue
		}

		// non-blocking: a busy queue means activity is coming anyway
		select {
		case g.queue <- job{id: uuid.New(), heartbeat: true}:
		default:
		}
	}
}

func (g *Generator) runHeartbeat() {
	g.mu.Lock()
	interval := g.keepAliveInterval
	idle := time.Since(g.lastActivity)
	g.mu.Unlock()

	// re-check: a stream may have been dispatched between the tick and
	// this job reaching the worker
	if interval <= 0 || idle < seconds(interval) {
		return
	}
	if err := g.gate(); err != nil {
		return
	}

	g.sink.Send(Step{})
	utils.Verbose("keep-alive heartbeat after %.2fs idle", idle.Seconds())

	g.mu.Lock()
	g.lastActivity = time.Now()
	g.mu.Unlock()
}

// String implements fmt.Stringer for logging.
func (g *Generator) String() string {
	return fmt.Sprintf("generator(active=%d, locked=%v)", g.reg.ActiveCount(), g.Locked())
}
