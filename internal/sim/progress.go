package sim

import (
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
	"go.uber.org/zap"
)

// Progress logs throughput and an ETA every k steps.
type Progress struct {
	logger *zap.Logger
	every  int
	total  int
	start  time.Time
	now    func() time.Time
}

func NewProgress(logger *zap.Logger, every, total int) *Progress {
	p := &Progress{
		logger: logger,
		every:  every,
		total:  total,
		now:    time.Now,
	}
	p.start = p.now()
	return p
}

func (p *Progress) OnStep(step int, t float64, bodies dynamo.Bodies) {
	if p.every <= 0 || step%p.every != 0 {
		return
	}

	elapsed := p.now().Sub(p.start).Seconds()
	rate := 0.0
	eta := time.Duration(0)
	if elapsed > 0 {
		rate = float64(step) / elapsed
		eta = time.Duration(float64(p.total-step) / rate * float64(time.Second))
	}

	p.logger.Info("progress",
		zap.Int("step", step),
		zap.Int("total", p.total),
		zap.Float64("steps_per_sec", rate),
		zap.Duration("eta", eta.Round(100*time.Millisecond)),
		zap.Float64("sim_days", t/86400),
	)
}
