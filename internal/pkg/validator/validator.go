package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/folhaplus/folha-backend-go/internal/pkg/textutil"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// IsValidPeriod checks a payroll period in "YYYY-MM" format.
func IsValidPeriod(period string) bool {
	if len(period) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", period)
	return err == nil
}

// IsValidCPF validates a Brazilian CPF, with or without punctuation.
// Both verifier digits are checked; repeated-digit sequences such as
// "111.111.111-11" pass the arithmetic but are rejected.
func IsValidCPF(cpf string) bool {
	digits := textutil.Digits(cpf)
	if len(digits) != 11 {
		return false
	}
	if allSameDigit(digits) {
		return false
	}
	if cpfVerifier(digits, 9) != int(digits[9]-'0') {
		return false
	}
	return cpfVerifier(digits, 10) == int(digits[10]-'0')
}

func cpfVerifier(digits string, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += int(digits[i]-'0') * (length + 1 - i)
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// IsValidCNPJ validates a Brazilian CNPJ, with or without punctuation.
func IsValidCNPJ(cnpj string) bool {
	digits := textutil.Digits(cnpj)
	if len(digits) != 14 {
		return false
	}
	if allSameDigit(digits) {
		return false
	}
	if cnpjVerifier(digits, cnpjWeightsFirst) != int(digits[12]-'0') {
		return false
	}
	return cnpjVerifier(digits, cnpjWeightsSecond) == int(digits[13]-'0')
}

func cnpjVerifier(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
