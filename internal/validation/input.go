package validation

import (
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateGameID validates game ID format
func ValidateGameID(id string) error {
	if len(id) == 0 || len(id) > 64 {
		return fmt.Errorf("game ID must be 1-64 characters")
	}

	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("game ID can only contain alphanumeric characters, hyphens, and underscores")
	}

	return nil
}

// ValidateClientID validates client ID format
func ValidateClientID(id string) error {
	if len(id) == 0 || len(id) > 64 {
		return fmt.Errorf("client ID must be 1-64 characters")
	}

	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("client ID can only contain alphanumeric characters, hyphens, and underscores")
	}

	return nil
}

// ValidateSpreadID validates spread ID format
func ValidateSpreadID(id string) error {
	if len(id) == 0 || len(id) > 64 {
		return fmt.Errorf("spread ID must be 1-64 characters")
	}

	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("spread ID can only contain alphanumeric characters, hyphens, and underscores")
	}

	return nil
}

// ValidateTopicID validates topic ID format
func ValidateTopicID(id string) error {
	if len(id) == 0 || len(id) > 128 {
		return fmt.Errorf("topic ID must be 1-128 characters")
	}

	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("topic ID can only contain alphanumeric characters, hyphens, and underscores")
	}

	return nil
}

// ValidateEntity validates an attribute target ("reader" or a client ID)
func ValidateEntity(entity string) error {
	if entity == "reader" {
		return nil
	}
	return ValidateClientID(entity)
}

// ValidateFieldName validates an attribute field name
func ValidateFieldName(field string) error {
	if len(field) == 0 || len(field) > 64 {
		return fmt.Errorf("field name must be 1-64 characters")
	}

	matched, _ := regexp.MatchString(`^[a-z_]+$`, field)
	if !matched {
		return fmt.Errorf("field name can only contain lowercase letters and underscores")
	}

	return nil
}

// ValidateReaderName validates a reader display name
func ValidateReaderName(name string) error {
	if len(name) == 0 || len(name) > 64 {
		return fmt.Errorf("reader name must be 1-64 characters")
	}

	matched, _ := regexp.MatchString(`^[a-zA-Z0-9 .'-]+$`, name)
	if !matched {
		return fmt.Errorf("reader name contains invalid characters")
	}

	return nil
}

// ValidateDelta validates an attribute delta
func ValidateDelta(delta int) error {
	if delta < -50 || delta > 50 {
		return fmt.Errorf("delta must be between -50 and 50")
	}
	return nil
}

// ValidateCondition bounds a branch predicate's size
func ValidateCondition(condition string) error {
	if len(condition) > 512 {
		return fmt.Errorf("condition must be at most 512 characters")
	}
	return nil
}
