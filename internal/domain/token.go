package domain

import (
	"errors"
	"strings"
	"time"
)

type TokenStatus string

const (
	StatusWaiting   TokenStatus = "WAITING"
	StatusPreparing TokenStatus = "PREPARING"
	StatusReady     TokenStatus = "READY"
	StatusCompleted TokenStatus = "COMPLETED"
)

// FirstTokenNumber is assigned when the queue is empty; later tokens get max+1.
const FirstTokenNumber int64 = 101

type Token struct {
	ID               int64       `json:"id"`
	CustomerName     string      `json:"customerName"`
	PhoneNumber      string      `json:"phoneNumber"`
	Status           TokenStatus `json:"status"`
	BookingTime      time.Time   `json:"bookingTime"`
	StatusChangeTime time.Time   `json:"statusChangeTime"`
}

var (
	ErrNameRequired      = errors.New("customer name is required")
	ErrInvalidPhone      = errors.New("phone number must be exactly 10 digits")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// forwardTransitions defines the only legal moves. COMPLETED is terminal
// except for deletion.
var forwardTransitions = map[TokenStatus]TokenStatus{
	StatusWaiting:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusCompleted,
}

func ValidTransition(from, to TokenStatus) bool {
	next, ok := forwardTransitions[from]
	return ok && next == to
}

func ParseTokenStatus(s string) (TokenStatus, bool) {
	switch TokenStatus(s) {
	case StatusWaiting, StatusPreparing, StatusReady, StatusCompleted:
		return TokenStatus(s), true
	}
	return "", false
}

// NormalizePhone strips all whitespace so "987 654 3210" validates the same
// as "9876543210".
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

func ValidateBooking(name, phone string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrNameRequired
	}
	normalized := NormalizePhone(phone)
	if len(normalized) != 10 {
		return "", ErrInvalidPhone
	}
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}
	return normalized, nil
}
