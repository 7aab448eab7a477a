package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"partsapi/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?\d{7,15}$`)
)

func ValidateString(field, val string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(val))
	if length < minLen || length > maxLen {
		return fmt.Errorf("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone must be 7 to 15 digits")
	}
	return nil
}

func ValidateRole(role string) error {
	switch role {
	case "", models.RoleCustomer, models.RoleAdmin:
		return nil
	}
	return fmt.Errorf("role must be %q or %q", models.RoleCustomer, models.RoleAdmin)
}

func ValidateOrder(o *models.Order) error {
	if err := ValidateEmail(o.Email); err != nil {
		return err
	}
	if err := ValidateString("productName", o.ProductName, 1, 200); err != nil {
		return err
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if o.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if o.Phone != "" {
		if err := ValidatePhone(o.Phone); err != nil {
			return err
		}
	}
	return nil
}

func ValidateProduct(p *models.Product) error {
	if err := ValidateString("name", p.Name, 1, 200); err != nil {
		return err
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if p.MinimumOrder < 0 {
		return fmt.Errorf("minimumOrder cannot be negative")
	}
	return nil
}

func ValidateReview(r *models.Review) error {
	if err := ValidateString("text", r.Text, 1, 2000); err != nil {
		return err
	}
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}

func ValidateStatus(status string) error {
	return ValidateString("status", status, 1, 50)
}
