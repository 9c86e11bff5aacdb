package utils

import "regexp"

// IFSC codes are 4 bank letters, a zero, and a 6 character branch code.
var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

func IsValidIFSC(code string) bool {
	return ifscPattern.MatchString(code)
}

// BankNameFromIFSC returns a display name for well-known bank prefixes so the
// client can pre-fill the bank name field. Unknown prefixes return "".
func BankNameFromIFSC(code string) string {
	if !IsValidIFSC(code) {
		return ""
	}
	names := map[string]string{
		"SBIN": "State Bank of India",
		"HDFC": "HDFC Bank",
		"ICIC": "ICICI Bank",
		"UTIB": "Axis Bank",
		"PUNB": "Punjab National Bank",
		"KKBK": "Kotak Mahindra Bank",
		"YESB": "Yes Bank",
		"IDIB": "Indian Bank",
		"CNRB": "Canara Bank",
		"BARB": "Bank of Baroda",
	}
	return names[code[:4]]
}
