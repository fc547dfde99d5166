package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSASTHasFixedOffset(t *testing.T) {
	winter := time.Date(2024, time.July, 1, 12, 0, 0, 0, SAST)
	summer := time.Date(2024, time.January, 1, 12, 0, 0, 0, SAST)

	_, winterOffset := winter.Zone()
	_, summerOffset := summer.Zone()
	require.Equal(t, 7200, winterOffset)
	require.Equal(t, 7200, summerOffset)
}

func TestLocalizeKeepsWallClock(t *testing.T) {
	naive := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

	local := Localize(naive, SAST)
	require.Equal(t, 9, local.Hour())
	require.Equal(t, 30, local.Minute())
	require.Equal(t, naive.Add(-2*time.Hour), local.UTC())
}

func TestClockNowUsesLocation(t *testing.T) {
	fixed := time.Date(2024, time.March, 5, 7, 0, 0, 0, time.UTC)
	clock := NewClockFunc(nil, func() time.Time { return fixed })

	now := clock.Now()
	require.Equal(t, SAST, now.Location())
	require.Equal(t, 9, now.Hour())
	require.True(t, now.Equal(fixed))
}

func TestResolve(t *testing.T) {
	for _, name := range []string{"", "SAST", "sast", " Africa/Johannesburg "} {
		loc, err := Resolve(name)
		require.NoError(t, err, name)
		require.Equal(t, SAST, loc, name)
	}

	for _, name := range []string{"Not/AZone", "UTC", "Europe/London"} {
		loc, err := Resolve(name)
		require.ErrorContains(t, err, "unsupported zone", name)
		require.Nil(t, loc)
	}
}
