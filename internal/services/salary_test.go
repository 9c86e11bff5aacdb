package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSalaryAmount(t *testing.T) {
	cases := []struct {
		salary string
		want   int64
	}{
		{"₹600/day", 600},
		{"₹650/day", 650},
		{"₹600-800/day", 600},
		{"Rs. 1200 per shift", 1200},
		{"12000", 12000},
		{"Negotiable", 0},
		{"", 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseSalaryAmount(tc.salary), "salary %q", tc.salary)
	}
}
