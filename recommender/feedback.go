package recommender

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Rating is a thumbs up or down on a displayed pose.
type Rating int

const (
	RatingNone Rating = iota
	RatingUp
	RatingDown
)

func (r Rating) String() string {
	switch r {
	case RatingUp:
		return "up"
	case RatingDown:
		return "down"
	default:
		return "none"
	}
}

// ParseRating accepts "up", "down" or "none".
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "👍":
		return RatingUp, nil
	case "down", "👎":
		return RatingDown, nil
	case "", "none":
		return RatingNone, nil
	}
	return RatingNone, fmt.Errorf("%w: rating %q", ErrInvalidInput, s)
}

// FeedbackSession keeps the ratings of one UI session in memory.
// Nothing is persisted.
type FeedbackSession struct {
	id      string
	mu      sync.Mutex
	ratings map[string]Rating
}

// NewFeedbackSession returns an empty session with a random ID.
func NewFeedbackSession() *FeedbackSession {
	return &FeedbackSession{id: uuid.NewString(), ratings: make(map[string]Rating)}
}

// ID identifies the session in logs.
func (f *FeedbackSession) ID() string {
	return f.id
}

// Set records r for key. RatingNone clears the key.
func (f *FeedbackSession) Set(key string, r Rating) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r == RatingNone {
		delete(f.ratings, key)
		return
	}
	f.ratings[key] = r
}

// Toggle sets r for key, or clears it when key already holds r.
func (f *FeedbackSession) Toggle(key string, r Rating) Rating {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ratings[key] == r {
		delete(f.ratings, key)
		return RatingNone
	}
	f.ratings[key] = r
	return r
}

// Get returns the rating stored for key.
func (f *FeedbackSession) Get(key string) Rating {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ratings[key]
}

// Counts returns how many poses were rated up and down.
func (f *FeedbackSession) Counts() (up, down int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ratings {
		switch r {
		case RatingUp:
			up++
		case RatingDown:
			down++
		}
	}
	return up, down
}

// Reset forgets every rating.
func (f *FeedbackSession) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings = make(map[string]Rating)
}
