package storefront

// Package storefront provides storefront.yaml parsing for deployment-level
// store settings: shipping origin, package defaults, and contact details.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	Store    StoreSettings    `yaml:"store"`
	Shipping ShippingSettings `yaml:"shipping"`
}

type StoreSettings struct {
	Name         string `yaml:"name"`
	Currency     string `yaml:"currency"`
	SupportEmail string `yaml:"support_email"`
}

type ShippingSettings struct {
	PickupPincode   string  `yaml:"pickup_pincode"`
	PackageWeightKg float64 `yaml:"package_weight_kg"`
	CashOnDelivery  bool    `yaml:"cash_on_delivery"`
}

// Defaults mirror the storefront this backend originally shipped with.
func Defaults() *Settings {
	return &Settings{
		Store: StoreSettings{
			Name:     "Cresen Ventures",
			Currency: "INR",
		},
		Shipping: ShippingSettings{
			PickupPincode:   "683572",
			PackageWeightKg: 1,
		},
	}
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*Settings, error) {
	settings := Defaults()
	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return settings, nil
}

// ParseFile loads settings from path. A missing file is not an error; the
// defaults apply.
func (p *Parser) ParseFile(path string) (*Settings, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Parse(content)
}
