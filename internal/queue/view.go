package queue

import (
	"sort"

	"canteenq/internal/domain"
)

// View is the display grouping: active buckets sorted by booking time,
// COMPLETED tokens counted but not listed.
type View struct {
	Waiting        []domain.Token `json:"waiting"`
	Preparing      []domain.Token `json:"preparing"`
	Ready          []domain.Token `json:"ready"`
	CompletedCount int            `json:"completedCount"`
}

func (e *Engine) View() View {
	e.mu.RLock()
	defer e.mu.RUnlock()

	view := View{
		Waiting:   []domain.Token{},
		Preparing: []domain.Token{},
		Ready:     []domain.Token{},
	}
	for _, t := range e.tokens {
		switch t.Status {
		case domain.StatusWaiting:
			view.Waiting = append(view.Waiting, t)
		case domain.StatusPreparing:
			view.Preparing = append(view.Preparing, t)
		case domain.StatusReady:
			view.Ready = append(view.Ready, t)
		case domain.StatusCompleted:
			view.CompletedCount++
		}
	}
	byBookingTime := func(tokens []domain.Token) {
		sort.Slice(tokens, func(i, j int) bool {
			return tokens[i].BookingTime.Before(tokens[j].BookingTime)
		})
	}
	byBookingTime(view.Waiting)
	byBookingTime(view.Preparing)
	byBookingTime(view.Ready)
	return view
}
