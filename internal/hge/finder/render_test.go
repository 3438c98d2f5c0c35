package finder

import (
	"bytes"
	"testing"
	"time"

	"github.com/greeddj/go-hge/internal/hge/crossref"
	"github.com/greeddj/go-hge/internal/hge/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()
	report := Report{
		Origin: "Sol",
		Radius: 20,
		Nearby: 7,
		Results: []crossref.Result{
			{Name: "Sol", Distance: 0, MaterialStates: states.Tally([]string{"federation", "boom"})},
			{Name: "Alpha Centauri", Distance: 4.38, MaterialStates: states.Tally([]string{"war", "civil war"})},
		},
	}

	var out bytes.Buffer
	require.NoError(t, Render(&out, report))
	text := out.String()
	assert.Contains(t, text, "Around Sol (20 ly)")
	assert.Contains(t, text, "4.38 ly")
	assert.Contains(t, text, "federation, boom")
	assert.Contains(t, text, "Composite, Heat, Alloys")
	assert.Contains(t, text, "war x2")
	assert.Contains(t, text, "Thermic, Capacitors")
	assert.Contains(t, text, "2 of 7 nearby systems shown")
	assert.NotContains(t, text, NoResults)
}

func TestRenderEmptyAndStale(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, Render(&out, Report{
		Origin: "Lave",
		Radius: 40,
		Stale:  true,
		SeenAt: time.Date(2026, 9, 30, 8, 0, 0, 0, time.UTC),
	}))
	assert.Contains(t, out.String(), NoResults)
	assert.Contains(t, out.String(), "last known location")
}

func TestFormatStates(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "-", formatStates(states.NewCounts()))
	assert.Equal(t, "empire, outbreak", formatStates(states.Tally([]string{"Outbreak", "Empire"})))
	assert.Equal(t, "-", formatMaterials(nil))
}
