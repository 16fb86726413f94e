package storefront

import (
	"fmt"
	"regexp"
	"strings"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

var pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// IsValidPincode validates an Indian postal code (6 digits, no leading zero).
func IsValidPincode(pincode string) bool {
	return pincodeRegex.MatchString(pincode)
}

func (v *Validator) Validate(settings *Settings) error {
	if err := v.validateStore(&settings.Store); err != nil {
		return fmt.Errorf("store validation failed: %w", err)
	}
	if err := v.validateShipping(&settings.Shipping); err != nil {
		return fmt.Errorf("shipping validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateStore(store *StoreSettings) error {
	if strings.TrimSpace(store.Name) == "" {
		return fmt.Errorf("store name is required")
	}

	currency := strings.ToUpper(strings.TrimSpace(store.Currency))
	if len(currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code")
	}

	return nil
}

func (v *Validator) validateShipping(shipping *ShippingSettings) error {
	if !IsValidPincode(shipping.PickupPincode) {
		return fmt.Errorf("pickup pincode %q is not a valid Indian postal code", shipping.PickupPincode)
	}

	if shipping.PackageWeightKg <= 0 {
		return fmt.Errorf("package weight must be positive")
	}

	return nil
}
