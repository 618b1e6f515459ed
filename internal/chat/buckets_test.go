package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWakingDay_Boundary(t *testing.T) {
	before := time.Date(2021, 3, 10, 4, 59, 0, 0, time.UTC)
	at := time.Date(2021, 3, 10, 5, 0, 0, 0, time.UTC)

	assert.Equal(t, date(2021, 3, 9), WakingDay(before))
	assert.Equal(t, date(2021, 3, 10), WakingDay(at))
	assert.Equal(t, date(2021, 3, 10), Day(before))
}

func TestWakingDay_MonthBoundary(t *testing.T) {
	ts := time.Date(2021, 3, 1, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2021, 2, 28), WakingDay(ts))
}

func TestWeek(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want time.Time
	}{
		{"monday", time.Date(2021, 3, 8, 23, 0, 0, 0, time.UTC), date(2021, 3, 8)},
		{"wednesday", time.Date(2021, 3, 10, 9, 0, 0, 0, time.UTC), date(2021, 3, 8)},
		{"sunday", time.Date(2021, 3, 14, 9, 0, 0, 0, time.UTC), date(2021, 3, 8)},
		{"across month", time.Date(2021, 3, 2, 9, 0, 0, 0, time.UTC), date(2021, 3, 1)},
		{"across year", time.Date(2021, 1, 2, 9, 0, 0, 0, time.UTC), date(2020, 12, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Week(tt.ts))
		})
	}
}

func TestMonthYear(t *testing.T) {
	ts := time.Date(2021, 7, 19, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, date(2021, 7, 1), Month(ts))
	assert.Equal(t, date(2021, 1, 1), Year(ts))
}

func TestBucketsKeepLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	ts := time.Date(2021, 3, 10, 2, 0, 0, 0, time.UTC).In(tokyo) // 11:00 JST
	assert.Equal(t, time.Date(2021, 3, 10, 0, 0, 0, 0, tokyo), WakingDay(ts))
	assert.Equal(t, tokyo, Day(ts).Location())
}
