package kyc

import (
	"regexp"
	"strings"

	"agrimandi/models"
)

// panPattern is the issuance format of a PAN: 5 letters, 4 digits, 1 letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// ValidateDocument checks the syntax of a document number before any network
// call and returns the normalized form (uppercased PAN, digits-only Aadhaar).
// Pure; no side effects.
func ValidateDocument(docType models.DocumentType, number string) (string, error) {
	switch docType {
	case models.DocumentPAN:
		normalized := strings.ToUpper(strings.TrimSpace(number))
		if !panPattern.MatchString(normalized) {
			return "", ValidationError{Reason: "bad_pan_format"}
		}
		return normalized, nil
	case models.DocumentAadhaar:
		normalized := stripWhitespace(number)
		if len(normalized) != 12 || !allDigits(normalized) {
			return "", ValidationError{Reason: "bad_aadhaar_format"}
		}
		// Aadhaar numbers are never issued starting with 0 or 1.
		if normalized[0] == '0' || normalized[0] == '1' {
			return "", ValidationError{Reason: "bad_aadhaar_format"}
		}
		return normalized, nil
	default:
		return "", ValidationError{Reason: "unknown_document_type"}
	}
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
