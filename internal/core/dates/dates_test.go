package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"typical date", "1404/08/16", true},
		{"lower year bound", "1300/01/01", true},
		{"upper year bound", "1500/12/31", true},
		{"day 31 in month without 31 days is tolerated", "1404/07/31", true},
		{"month out of range", "1404/13/01", false},
		{"month zero", "1404/00/10", false},
		{"day out of range", "1404/08/32", false},
		{"day zero", "1404/08/00", false},
		{"year below range", "1299/08/16", false},
		{"year above range", "1501/08/16", false},
		{"wrong separator", "1404-08-16", false},
		{"single digit month", "1404/8/16", false},
		{"trailing garbage", "1404/08/16x", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.token))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("1404/08/16"))

	err := Validate("1404/13/01")
	assert.Error(t, err)

	err = Validate("")
	assert.Error(t, err)
}
