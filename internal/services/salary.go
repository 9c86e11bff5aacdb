package services

import (
	"regexp"
	"strconv"
)

var salaryDigits = regexp.MustCompile(`\d+`)

// ParseSalaryAmount extracts the payment amount from a job's free-text salary.
// The first run of digits wins: "₹600/day" gives 600, "₹600-800/day" gives
// 600. Text with no digits, such as "Negotiable", gives 0.
func ParseSalaryAmount(salary string) int64 {
	match := salaryDigits.FindString(salary)
	if match == "" {
		return 0
	}
	amount, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0
	}
	return amount
}
