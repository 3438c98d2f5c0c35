package states

import (
	"testing"

	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input []string
		want  Counts
	}{
		{
			name:  "empty",
			input: nil,
			want:  Counts{Federation: 0, Empire: 0, Boom: 0, CivilUnrest: 0, War: 0, Outbreak: 0},
		},
		{
			name:  "allegiance and states",
			input: []string{"Federation", "boom", "BOOM", "Civil Unrest", "expansion", "independent"},
			want:  Counts{Federation: 1, Empire: 0, Boom: 2, CivilUnrest: 1, War: 0, Outbreak: 0},
		},
		{
			name:  "civil war folds into war",
			input: []string{"war", "civil war", "Civil War", " outbreak "},
			want:  Counts{Federation: 0, Empire: 0, Boom: 0, CivilUnrest: 0, War: 3, Outbreak: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Tally(tt.input))
		})
	}
}

func TestTallyKeysAreClosed(t *testing.T) {
	t.Parallel()
	got := Tally([]string{"lockdown", "civil liberty", "famine"})
	assert.Len(t, got, len(Recognized))
	for _, s := range Recognized {
		assert.Zero(t, got[s])
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	got := Counts{War: 2, "retreat": 5, Boom: -1}.Normalize()
	assert.Equal(t, Counts{Federation: 0, Empire: 0, Boom: 0, CivilUnrest: 0, War: 2, Outbreak: 0}, got)
}

func TestMaterials(t *testing.T) {
	t.Parallel()
	c := Tally([]string{"empire", "civil war", "boom"})
	assert.Equal(t, []State{Empire, Boom, War}, c.Active())
	assert.Equal(t, []Material{Shielding, Heat, Alloys, Thermic, Capacitors}, c.Materials())
	assert.True(t, c.Yields(Capacitors))
	assert.False(t, c.Yields(Chemical))
	assert.Equal(t, []Material{Heat, Alloys}, Yield(Boom))
}

func TestMaterialByName(t *testing.T) {
	t.Parallel()
	m, err := MaterialByName("mechanical COMPONENTS")
	require.NoError(t, err)
	assert.Equal(t, MechanicalComponents, m)

	_, err = MaterialByName("unobtainium")
	require.ErrorIs(t, err, helpers.ErrUnknownMaterial)
	assert.Contains(t, err.Error(), "Capacitors")
}
