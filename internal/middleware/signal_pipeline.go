package middleware

import (
	"context"
	"sync"

	"PumpScan/internal/domain/models"
	domrepo "PumpScan/internal/domain/repository"
	applogger "PumpScan/pkg/logger"
)

// Sink receives published signals downstream of the scan loop.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, sig *models.Signal) error
}

// SignalPipeline decouples signal fan-out from the scan loop: the loop
// hands a signal off without blocking and a background worker delivers
// it to every sink. A full buffer drops the signal rather than stalling
// the cycle; the store write happens upstream, so fan-out is best-effort.
type SignalPipeline struct {
	sinks   []Sink
	metrics domrepo.Metrics
	log     *applogger.Logger

	buf     chan *models.Signal
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

type PipelineOption func(*SignalPipeline)

// WithBufferSize sets the hand-off buffer capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *SignalPipeline) {
		if n > 0 {
			p.buf = make(chan *models.Signal, n)
		}
	}
}

// NewSignalPipeline creates a pipeline delivering to the given sinks.
func NewSignalPipeline(metrics domrepo.Metrics, log *applogger.Logger, sinks []Sink, opts ...PipelineOption) *SignalPipeline {
	p := &SignalPipeline{
		sinks:   sinks,
		metrics: metrics,
		log:     log,
		buf:     make(chan *models.Signal, 256),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background delivery worker.
func (p *SignalPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-p.stopCh:
				return
			case sig := <-p.buf:
				if sig == nil {
					continue
				}
				p.deliver(ctx, sig)
			}
		}
	}()
}

// Stop halts delivery. Buffered signals not yet delivered are discarded.
func (p *SignalPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	p.wg.Wait()
}

// Publish hands a signal to the pipeline without blocking.
func (p *SignalPipeline) Publish(sig *models.Signal) {
	select {
	case p.buf <- sig:
	default:
		if p.metrics != nil {
			p.metrics.RecordError("pipeline_buffer_drop")
		}
		if p.log != nil {
			p.log.Warn("signal fan-out buffer full, dropping",
				applogger.String("pair", sig.Pair),
				applogger.String("mode", sig.Mode),
			)
		}
	}
}

func (p *SignalPipeline) deliver(ctx context.Context, sig *models.Signal) {
	for _, s := range p.sinks {
		if err := s.Deliver(ctx, sig); err != nil {
			if p.metrics != nil {
				p.metrics.RecordError("sink_" + s.Name())
			}
			if p.log != nil {
				p.log.Warn("signal delivery failed",
					applogger.String("sink", s.Name()),
					applogger.String("pair", sig.Pair),
					applogger.Error(err),
				)
			}
		}
	}
}
