package pums

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveName(t *testing.T) {
	lookups := NewLookups(map[string]string{"CA": "California", "NY": "New York"}, nil)

	tests := []struct {
		name   string
		folder string
		file   string
		want   string
	}{
		{name: "person state", folder: "pums_pCA", file: "psam_p06.csv", want: "individual_people_california"},
		{name: "housing state", folder: "pums_hCA", file: "psam_h06.csv", want: "housing_units_california"},
		{name: "upper-case record type", folder: "pums_PCA", file: "psam_p06.csv", want: "individual_people_california"},
		{name: "lower-case geography", folder: "pums_pny", file: "psam_p36.csv", want: "individual_people_new_york"},
		{name: "unknown state", folder: "pums_pZZ", file: "psam_p99.csv", want: "individual_people_unknown_state_code"},
		{name: "national first tranche", folder: "pums_hUS", file: "psam_pusa.csv", want: "housing_units_united_states_first_tranche"},
		{name: "national second tranche", folder: "pums_pUS", file: "psam_pusb.csv", want: "individual_people_united_states_second_tranche"},
		{name: "national unknown tranche", folder: "pums_pUS", file: "psam_pusz.csv", want: "individual_people_unknown_national_code"},
		{name: "national without sub-code", folder: "pums_pUS", file: "psam.csv", want: "individual_people_unknown_national_code"},
		{name: "any non-p record type is housing", folder: "pums_xCA", file: "a.csv", want: "housing_units_california"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveName(tt.folder, tt.file, lookups)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveName_InvalidCode(t *testing.T) {
	lookups := NewLookups(nil, nil)

	tests := []struct {
		name     string
		folder   string
		wantCode string
	}{
		{name: "three characters", folder: "pums_pXYZ", wantCode: "XYZ"},
		{name: "one character", folder: "pums_pC", wantCode: "C"},
		{name: "no geography", folder: "pums_p", wantCode: ""},
		{name: "no underscore", folder: "pums", wantCode: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveName(tt.folder, "psam_p01.csv", lookups)
			require.Error(t, err)

			var codeErr *InvalidCodeError
			require.True(t, errors.As(err, &codeErr))
			assert.Equal(t, tt.folder, codeErr.Folder)
			assert.Equal(t, tt.wantCode, codeErr.Code)
		})
	}
}

func TestLookups_CopiesInput(t *testing.T) {
	states := map[string]string{"CA": "California"}
	lookups := NewLookups(states, nil)
	states["CA"] = "Changed"

	assert.Equal(t, "California", lookups.State("CA"))
	assert.Equal(t, 1, lookups.StateCount())
	assert.Equal(t, "United States first tranche", lookups.National("USA"))
	assert.Equal(t, UnknownNationalName, lookups.National("USC"))
}
