package invoice

import "strings"

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// NumberToWords converts a non-negative integer to its English word form
// using Indian-numbering grouping (Hundred, Thousand, Lakh, Crore).
// Zero and negative values yield the empty string.
func NumberToWords(n int64) string {
	return strings.TrimSpace(numberToWords(n))
}

func numberToWords(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 20:
		return onesWords[n]
	case n < 100:
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + " " + onesWords[n%10]
	case n < 1_000:
		return joinBand(onesWords[n/100], "Hundred", n%100)
	case n < 100_000:
		return joinBand(numberToWords(n/1_000), "Thousand", n%1_000)
	case n < 10_000_000:
		return joinBand(numberToWords(n/100_000), "Lakh", n%100_000)
	default:
		return joinBand(numberToWords(n/10_000_000), "Crore", n%10_000_000)
	}
}

func joinBand(head, unit string, remainder int64) string {
	if remainder == 0 {
		return head + " " + unit
	}
	return head + " " + unit + " " + numberToWords(remainder)
}

// AmountInWords renders a rupee amount for the invoice footer,
// e.g. 1180 -> "One Thousand One Hundred Eighty Rupees Only".
// Zero reads "Zero Rupees Only".
func AmountInWords(rupees int64) string {
	words := NumberToWords(rupees)
	if words == "" && rupees == 0 {
		words = "Zero"
	}
	return strings.TrimSpace(words + " Rupees Only")
}
