package circle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/circle-engine/circle"
)

func TestValidateSetup_Valid(t *testing.T) {
	assert.NoError(t, circle.ValidateSetup(fiveMembers(), "2024-01-01"))
}

func TestValidateSetup_Rejections(t *testing.T) {
	cases := []struct {
		name      string
		members   []circle.Member
		startDate string
	}{
		{"blank member name", []circle.Member{{ID: "a", Name: "  ", Order: 1}}, "2024-01-01"},
		{"no members", nil, "2024-01-01"},
		{"empty start date", fiveMembers(), ""},
		{"malformed start date", fiveMembers(), "Jan 1 2024"},
		{"duplicate order", []circle.Member{
			{ID: "a", Name: "A", Order: 1},
			{ID: "b", Name: "B", Order: 1},
		}, "2024-01-01"},
		{"duplicate id", []circle.Member{
			{ID: "a", Name: "A", Order: 1},
			{ID: "a", Name: "B", Order: 2},
		}, "2024-01-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := circle.ValidateSetup(tc.members, tc.startDate)
			require.Error(t, err)
			var setupErr *circle.SetupError
			require.ErrorAs(t, err, &setupErr)
			assert.NotEmpty(t, setupErr.Problems)
		})
	}
}

func TestValidateSetup_CollectsAllProblems(t *testing.T) {
	// One bad setup, several distinct problems: all reported at once.
	err := circle.ValidateSetup([]circle.Member{
		{ID: "a", Name: "", Order: 1},
		{ID: "a", Name: "B", Order: 1},
	}, "")

	var setupErr *circle.SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.GreaterOrEqual(t, len(setupErr.Problems), 3)
}
