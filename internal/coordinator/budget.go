package coordinator

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// defaultExtractorBudget is the 8-second-per-extractor soft budget.
const defaultExtractorBudget = 8 * time.Second

// extractorBudget enforces the per-category soft time budget by timing
// each call; a token-bucket limiter reserved before each call serves only
// as a pressure signal and never delays the call. An overrun is logged,
// never aborted, since each category
// extractor is a synchronous regex pass with no partial-result contract
// to fall back to.
type extractorBudget struct {
	limiter *rate.Limiter
	per     time.Duration
	log     *logrus.Entry
}

func newExtractorBudget(per time.Duration, log *logrus.Entry) *extractorBudget {
	if per <= 0 {
		per = defaultExtractorBudget
	}
	return &extractorBudget{limiter: rate.NewLimiter(rate.Every(per), 1), per: per, log: log}
}

// guard runs fn, logging a warning if it overran the soft budget and a
// debug line if the limiter's reservation reports a delay, which happens
// when less than one budget period has passed since the previous
// reservation. fn runs at once either way, and its result is always
// kept; this never discards work.
func (b *extractorBudget) guard(category string, fn func()) {
	if r := b.limiter.Reserve(); r.Delay() > 0 {
		b.log.WithFields(logrus.Fields{"category": category, "wait": r.Delay()}).
			Debug("extractor budget pressure, proceeding anyway")
	}

	start := time.Now()
	fn()
	if elapsed := time.Since(start); elapsed > b.per {
		b.log.WithFields(logrus.Fields{"category": category, "elapsed": elapsed, "budget": b.per}).
			Warn("extractor exceeded soft time budget")
	}
}
