package web

import (
	"errors"
	"testing"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/stretchr/testify/assert"
)

func exactlyOne(t *testing.T, s Section[string]) {
	t.Helper()
	count := 0
	for _, on := range []bool{s.IsLoading(), s.IsError(), s.IsEmpty(), s.IsPopulated()} {
		if on {
			count++
		}
	}
	assert.Equal(t, 1, count, "state %s", s.State())
}

func TestSectionStates(t *testing.T) {
	tests := []struct {
		name    string
		section Section[string]
		want    State
	}{
		{"populated", NewSection([]string{"a"}, nil), StatePopulated},
		{"empty nil", NewSection[string](nil, nil), StateEmpty},
		{"empty slice", NewSection([]string{}, nil), StateEmpty},
		{"error", NewSection[string](nil, errors.New("boom")), StateError},
		{"error wins over items", NewSection([]string{"a"}, errors.New("boom")), StateError},
		{"loading", Loading[string]("<div></div>"), StateLoading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.section.State())
			exactlyOne(t, tt.section)
		})
	}
}

func TestSectionErrorMessage(t *testing.T) {
	assert.Empty(t, NewSection([]string{"a"}, nil).ErrorMessage())
	assert.Contains(t, NewSection[string](nil, errs.NewNotFoundError("project")).ErrorMessage(), "no longer available")
	assert.Contains(t, NewSection[string](nil, errs.NewUpstreamError("GET", 500, "/news", "")).ErrorMessage(), "try again")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "populated", StatePopulated.String())
}
