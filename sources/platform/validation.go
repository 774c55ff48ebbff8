package platform

import (
	"fmt"
	"net/url"
)

func ValidateNotEmpty(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

func ValidateHttpUrl(value string, fieldName string) error {
	if err := ValidateNotEmpty(value, fieldName); err != nil {
		return err
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid url: %w", fieldName, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", fieldName, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s has no host", fieldName)
	}

	return nil
}

func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", fieldName, value)
	}
	return nil
}
