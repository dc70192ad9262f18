// Package reviews rotates customer testimonials on a fixed interval.
package reviews

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how long each review stays up.
const DefaultInterval = 4 * time.Second

// Review is one testimonial.
type Review struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Quote renders the text in quotation marks.
func (r Review) Quote() string { return `"` + r.Text + `"` }

// Byline renders the author line.
func (r Review) Byline() string { return "- " + r.Author }

// Default is the storefront's testimonial list.
var Default = []Review{
	{Text: "It's good value for money. Taste of ice creams are OK but having good serving size in the price they offer.", Author: "Feras Zen."},
	{Text: "Absolutely the freshest juice I've ever had! The mango blend is incredible.", Author: "Emily R."},
	{Text: "I love the fruit salads here. Everything tastes natural and high quality.", Author: "Daniel K."},
	{Text: "The pistachio sauce on the ice cream is amazing. Highly recommended!", Author: "Sophia L."},
	{Text: "Great atmosphere and very friendly staff. My go-to place every weekend!", Author: "Michael T."},
}

var ErrNoReviews = errors.New("reviews: empty review list")

// Rotator cycles through a review list.
type Rotator struct {
	reviews []Review
	logger  *zap.Logger

	mu    sync.RWMutex
	index int
}

func NewRotator(reviews []Review, logger *zap.Logger) (*Rotator, error) {
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}
	own := make([]Review, len(reviews))
	copy(own, reviews)
	return &Rotator{reviews: own, logger: logger}, nil
}

// Current returns the review on display.
func (r *Rotator) Current() Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reviews[r.index]
}

// Index returns the position of the current review.
func (r *Rotator) Index() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index
}

// Next advances to the following review, wrapping at the end.
func (r *Rotator) Next() Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = (r.index + 1) % len(r.reviews)
	return r.reviews[r.index]
}

// Run advances every interval until ctx is done.
func (r *Rotator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("review rotation started", zap.Duration("interval", interval), zap.Int("reviews", len(r.reviews)))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("review rotation stopped")
			return
		case <-ticker.C:
			rev := r.Next()
			r.logger.Debug("review rotated", zap.String("author", rev.Author))
		}
	}
}
