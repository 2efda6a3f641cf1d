package model

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var orderNumberRe = regexp.MustCompile(`^SJ-\d{6}-\d{4}$`)

func TestNewOrderNumberFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		n := NewOrderNumber()
		assert.Regexp(t, orderNumberRe, n)
	}
}

func TestOrderNumberUsesTimestampTail(t *testing.T) {
	now := time.UnixMilli(1756500123456)
	n := newOrderNumberAt(now)
	assert.Equal(t, "SJ-123456-", n[:10])
}

func TestEnsureOrderNumberKeepsExisting(t *testing.T) {
	assert.Equal(t, "SJ-000001-1234", EnsureOrderNumber("SJ-000001-1234"))
	assert.Regexp(t, orderNumberRe, EnsureOrderNumber(""))
}
