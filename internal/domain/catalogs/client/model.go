// Package client provides the Client catalog: the individuals and companies
// quotes and invoices are issued to.
package client

import (
	"context"
	"strings"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
)

// Type distinguishes people from companies.
type Type string

const (
	TypeIndividual Type = "Individual"
	TypeCompany    Type = "Company"
)

// Client is a customer of the business.
type Client struct {
	entity.BaseEntity

	ClientType Type `db:"client_type" json:"clientType"`

	FirstName   string  `db:"first_name" json:"firstName"`
	LastName    *string `db:"last_name" json:"lastName,omitempty"`
	CompanyName *string `db:"company_name" json:"companyName,omitempty"`

	// DocumentNumber is the national id or tax number
	DocumentNumber *string `db:"document_number" json:"documentNumber,omitempty"`

	Phone          string  `db:"phone" json:"phone"`
	SecondaryPhone *string `db:"secondary_phone" json:"secondaryPhone,omitempty"`
	Email          *string `db:"email" json:"email,omitempty"`
	Address        *string `db:"address" json:"address,omitempty"`
	Sector         *string `db:"sector" json:"sector,omitempty"`
	City           *string `db:"city" json:"city,omitempty"`
	Notes          *string `db:"notes" json:"notes,omitempty"`

	PreferredPaymentMethod *string `db:"preferred_payment_method" json:"preferredPaymentMethod,omitempty"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewClient creates an active client with a fresh id.
func NewClient() *Client {
	return &Client{
		BaseEntity: entity.NewBaseEntity(),
		IsActive:   true,
	}
}

// Normalize trims text fields; blank optional fields become nil.
func (c *Client) Normalize() {
	c.ClientType = Type(strings.TrimSpace(string(c.ClientType)))
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.Phone = strings.TrimSpace(c.Phone)
	for _, f := range []**string{
		&c.LastName, &c.CompanyName, &c.DocumentNumber, &c.SecondaryPhone, &c.Email,
		&c.Address, &c.Sector, &c.City, &c.Notes, &c.PreferredPaymentMethod,
	} {
		*f = types.TrimToNil(*f)
	}
}

// Collect appends every validation problem to v.
func (c *Client) Collect(v *apperror.Collector) {
	switch {
	case c.ClientType == "":
		v.Add("clientType is required")
	case c.ClientType != TypeIndividual && c.ClientType != TypeCompany:
		v.Add("clientType must be 'Individual' or 'Company'")
	}
	if strings.TrimSpace(c.FirstName) == "" {
		v.Add("firstName is required")
	}
	if c.ClientType == TypeCompany && types.IsBlank(c.CompanyName) {
		v.Add("companyName is required when clientType is Company")
	}
	if strings.TrimSpace(c.Phone) == "" {
		v.Add("phone is required")
	}
}

// Validate implements entity.Validatable.
func (c *Client) Validate(_ context.Context) error {
	var v apperror.Collector
	c.Collect(&v)
	return v.Err()
}

// Apply copies the editable fields of src onto c.
func (c *Client) Apply(src *Client) {
	c.ClientType = src.ClientType
	c.FirstName = src.FirstName
	c.LastName = src.LastName
	c.CompanyName = src.CompanyName
	c.DocumentNumber = src.DocumentNumber
	c.Phone = src.Phone
	c.SecondaryPhone = src.SecondaryPhone
	c.Email = src.Email
	c.Address = src.Address
	c.Sector = src.Sector
	c.City = src.City
	c.Notes = src.Notes
	c.PreferredPaymentMethod = src.PreferredPaymentMethod
	c.IsActive = src.IsActive
}

// FullName is "first last" without a trailing blank.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + types.StringValue(c.LastName))
}

// DisplayName prefers the company name for companies.
func (c *Client) DisplayName() string {
	if c.ClientType == TypeCompany && !types.IsBlank(c.CompanyName) {
		return *c.CompanyName
	}
	return c.FullName()
}

// Summary is the client view embedded in quote and invoice responses.
type Summary struct {
	ID          id.ID   `db:"id" json:"id"`
	ClientType  Type    `db:"client_type" json:"clientType"`
	FirstName   string  `db:"first_name" json:"firstName"`
	LastName    *string `db:"last_name" json:"lastName,omitempty"`
	CompanyName *string `db:"company_name" json:"companyName,omitempty"`
	Phone       string  `db:"phone" json:"phone,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`
}
