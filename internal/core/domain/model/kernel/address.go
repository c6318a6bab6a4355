package kernel

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address instance was not
// created through the NewAddress factory method.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is a value object representing a postal address used on both ends
// of a shipment. It is immutable once constructed.
//
// Country defaults to "US" when not supplied, since carrier APIs reject an
// empty country code but accept missing secondary fields.
type Address struct {
	name    string
	street1 string
	street2 string
	city    string
	state   string
	zip     string
	country string
	phone   string
	email   string

	guard guard.ConstructorGuard
}

// NewAddress creates a validated Address. Street1, city and zip are required;
// all remaining fields are optional.
func NewAddress(name, street1, street2, city, state, zip, country, phone, email string) (Address, error) {
	if street1 == "" {
		return Address{}, errs.NewValueIsRequiredError("street1")
	}
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("city")
	}
	if zip == "" {
		return Address{}, errs.NewValueIsRequiredError("zip")
	}
	if country == "" {
		country = "US"
	}

	return Address{
		name:    name,
		street1: street1,
		street2: street2,
		city:    city,
		state:   state,
		zip:     zip,
		country: country,
		phone:   phone,
		email:   email,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Name returns the addressee name.
func (a Address) Name() string { return a.name }

// Street1 returns the primary street line.
func (a Address) Street1() string { return a.street1 }

// Street2 returns the secondary street line, if any.
func (a Address) Street2() string { return a.street2 }

// City returns the city.
func (a Address) City() string { return a.city }

// State returns the state or province code.
func (a Address) State() string { return a.state }

// Zip returns the postal code.
func (a Address) Zip() string { return a.zip }

// Country returns the two-letter country code.
func (a Address) Country() string { return a.country }

// Phone returns the contact phone number.
func (a Address) Phone() string { return a.phone }

// Email returns the contact email.
func (a Address) Email() string { return a.email }

// IsEqual compares two addresses field by field.
func (a Address) IsEqual(other Address) bool {
	return a.name == other.name &&
		a.street1 == other.street1 &&
		a.street2 == other.street2 &&
		a.city == other.city &&
		a.state == other.state &&
		a.zip == other.zip &&
		a.country == other.country &&
		a.phone == other.phone &&
		a.email == other.email
}
