package core

// checksum.go implements the SIRUTA check digit algorithm published by INSSE.
//
// The rightmost digit is the check digit. The five digits to its left are
// multiplied, right to left, by the weights 1, 2, 3, 5 and 7; the decimal
// digits of every product are summed. The code is valid when
// (11 - sum mod 10) mod 10 equals the check digit. Missing leading digits
// count as zero.
//
// Some codes present in the official registry fail this check (86453 is one).
// The loader treats a failure as a diagnostic and keeps the record.

import (
	"strconv"
	"strings"
)

// MaxCodeDigits is the longest valid SIRUTA code.
const MaxCodeDigits = 6

var checksumWeights = [5]int{1, 2, 3, 5, 7}

// IsValidCode reports whether code carries a correct SIRUTA check digit.
// It validates the format only; the code may still be absent from a registry.
func IsValidCode(code int) bool {
	if code < 0 || len(strconv.Itoa(code)) > MaxCodeDigits {
		return false
	}

	checkDigit := code % 10
	sum := 0
	for _, w := range checksumWeights {
		code /= 10
		sum += digitSum((code % 10) * w)
	}

	return (11-sum%10)%10 == checkDigit
}

// IsValidCodeString parses s as an integer and validates it with IsValidCode.
// Values that do not parse are not valid.
func IsValidCodeString(s string) bool {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return IsValidCode(code)
}

// digitSum returns the sum of the decimal digits of a non-negative n.
func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
