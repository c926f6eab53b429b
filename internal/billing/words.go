package billing

import "strings"

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders a non-negative whole-rupee amount in words using
// the Indian numbering system: units, tens, hundreds, then two-digit
// groups of Thousand, Lakh and Crore. The result is upper-cased and
// suffixed with " RUPEES ONLY". There is no paise support; amounts are
// whole currency units.
func AmountInWords(n int64) string {
	if n <= 0 {
		return "ZERO RUPEES ONLY"
	}
	return strings.ToUpper(numberWords(n)) + " RUPEES ONLY"
}

// numberWords renders n > 0 most-significant-group first. Amounts of one
// hundred crore and above recurse on the crore count, so "1,23,45,67,890"
// reads "One Hundred Twenty Three Crore ...".
func numberWords(n int64) string {
	var parts []string

	if crore := n / 1_00_00_000; crore > 0 {
		parts = append(parts, numberWords(crore)+" Crore")
	}
	if lakh := (n / 1_00_000) % 100; lakh > 0 {
		parts = append(parts, twoDigitWords(lakh)+" Lakh")
	}
	if thousand := (n / 1000) % 100; thousand > 0 {
		parts = append(parts, twoDigitWords(thousand)+" Thousand")
	}
	if rest := n % 1000; rest > 0 {
		parts = append(parts, threeDigitWords(rest))
	}

	return strings.Join(parts, " ")
}

func twoDigitWords(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}

func threeDigitWords(n int64) string {
	if n < 100 {
		return twoDigitWords(n)
	}
	out := onesWords[n/100] + " Hundred"
	if rest := n % 100; rest > 0 {
		out += " " + twoDigitWords(rest)
	}
	return out
}
