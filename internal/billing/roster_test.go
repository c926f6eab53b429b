package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ramesh Kumar", "ramesh kumar"},
		{"  RAMESH   KUMAR  ", "ramesh kumar"},
		{"ramesh\tkumar", "ramesh kumar"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in))
	}
}

func TestCheckRoster(t *testing.T) {
	records := []entity.AttendanceRecord{
		{Name: "Ramesh Kumar", PresentDays: 26},
		{Name: "SURESH  PATEL", PresentDays: 24},
		{Name: "Unknown Person", PresentDays: 10},
	}
	roster := []string{"ramesh kumar", "Suresh Patel", "Mahesh Singh"}

	warnings := CheckRoster(records, roster)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Index)
	assert.Equal(t, "Unknown Person", warnings[0].Name)
}

func TestCheckRoster_EmptyRoster(t *testing.T) {
	records := []entity.AttendanceRecord{{Name: "Ramesh Kumar"}}
	assert.Empty(t, CheckRoster(records, nil))
}
