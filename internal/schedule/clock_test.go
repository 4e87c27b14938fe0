package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gyaneshwarpardhi/announcer/internal/config"
)

func rule(enabled bool, beforeSec, firstSec, intervalSec uint16) config.SpawnConfig {
	return config.SpawnConfig{
		Notify: config.NotifyInfo{
			Enabled:   enabled,
			BeforeSec: beforeSec,
			Action:    config.DefaultAction(),
		},
		Spawn: config.SpawnInfo{FirstSec: firstSec, IntervalSec: intervalSec},
	}
}

func TestDue_Disabled(t *testing.T) {
	r := rule(false, 0, 0, 10)
	for clock := -100; clock <= 100; clock++ {
		assert.False(t, Due(r, clock), "clock %d", clock)
	}
}

func TestDue_ZeroIntervalIsDisabled(t *testing.T) {
	r := rule(true, 0, 0, 0)
	for _, clock := range []int{-1, 0, 1, 10} {
		assert.False(t, Due(r, clock), "clock %d", clock)
	}
}

func TestDue_NoLead(t *testing.T) {
	r := rule(true, 0, 0, 10)
	for _, clock := range []int{0, 10, 20} {
		assert.True(t, Due(r, clock), "clock %d", clock)
	}
	for _, clock := range []int{-1, 1, 9, 11, 19, 21} {
		assert.False(t, Due(r, clock), "clock %d", clock)
	}
}

func TestDue_LeadTime(t *testing.T) {
	r := rule(true, 2, 0, 10)
	for _, clock := range []int{-2, 8, 18} {
		assert.True(t, Due(r, clock), "clock %d", clock)
	}
	for _, clock := range []int{-3, -1, 0, 7, 9, 10, 17, 19, 20} {
		assert.False(t, Due(r, clock), "clock %d", clock)
	}
}

func TestDue_OffsetFirstSpawn(t *testing.T) {
	r := rule(true, 0, 5, 10)
	for _, clock := range []int{5, 15} {
		assert.True(t, Due(r, clock), "clock %d", clock)
	}
	for _, clock := range []int{-1, 0, 4, 6, 10, 14, 16} {
		assert.False(t, Due(r, clock), "clock %d", clock)
	}
}

func TestDue_OffsetFirstSpawnWithLead(t *testing.T) {
	r := rule(true, 2, 5, 10)
	for _, clock := range []int{3, 13} {
		assert.True(t, Due(r, clock), "clock %d", clock)
	}
	for _, clock := range []int{-2, 0, 2, 4, 5, 6, 8, 10, 12, 14, 15, 16} {
		assert.False(t, Due(r, clock), "clock %d", clock)
	}
}

func TestDue_LeadLongerThanInterval(t *testing.T) {
	r := rule(true, 15, 0, 10)
	for _, clock := range []int{-15, -5, 5, 15} {
		assert.True(t, Due(r, clock), "clock %d", clock)
	}
	for _, clock := range []int{-16, -14, -6, 0, 4, 10} {
		assert.False(t, Due(r, clock), "clock %d", clock)
	}
}

// Every enabled rule fires exactly at first-before+k*interval.
func TestDue_FiresOnlyOnSchedule(t *testing.T) {
	for _, tc := range []struct{ before, first, interval uint16 }{
		{15, 0, 300},
		{10, 240, 120},
		{5, 600, 600},
		{0, 420, 600},
		{7, 3, 4},
		{0, 0, 1},
	} {
		r := rule(true, tc.before, tc.first, tc.interval)
		firstNotify := int(tc.first) - int(tc.before)
		for clock := -700; clock <= 3000; clock++ {
			want := clock >= firstNotify && (clock-firstNotify)%int(tc.interval) == 0
			if got := Due(r, clock); got != want {
				t.Fatalf("rule %+v clock %d: Due = %v, want %v", tc, clock, got, want)
			}
		}
	}
}

func TestNext(t *testing.T) {
	r := rule(true, 2, 0, 10)

	cases := map[int]int{-100: -2, -2: -2, -1: 8, 0: 8, 8: 8, 9: 18, 18: 18}
	for clock, want := range cases {
		got, ok := Next(r, clock)
		assert.True(t, ok)
		assert.Equal(t, want, got, "clock %d", clock)
		assert.True(t, Due(r, got), "Next(%d) = %d must be due", clock, got)
	}

	_, ok := Next(rule(false, 2, 0, 10), 0)
	assert.False(t, ok)
	_, ok = Next(rule(true, 2, 0, 0), 0)
	assert.False(t, ok)
}
