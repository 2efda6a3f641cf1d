package model

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// NewOrderNumber generates an order number in the historical wire format:
// the last 6 digits of the Unix-millisecond timestamp plus a uniform
// random integer in [1000, 9999], as SJ-<6digits>-<4digits>.
func NewOrderNumber() string {
	return newOrderNumberAt(time.Now())
}

func newOrderNumberAt(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	random := rand.Intn(9000) + 1000
	return fmt.Sprintf("SJ-%s-%d", millis, random)
}

// EnsureOrderNumber assigns a generated number only when the field is
// empty, so re-saving never regenerates an existing number.
func EnsureOrderNumber(current string) string {
	if current != "" {
		return current
	}
	return NewOrderNumber()
}
