package dto

import "airsolutions/internal/domain/catalogs/client"

// ClientRequest carries the editable fields of a client.
type ClientRequest struct {
	ClientType             string  `json:"clientType" validate:"max=20"`
	FirstName              string  `json:"firstName" validate:"max=100"`
	LastName               *string `json:"lastName" validate:"omitempty,max=100"`
	CompanyName            *string `json:"companyName" validate:"omitempty,max=200"`
	DocumentNumber         *string `json:"documentNumber" validate:"omitempty,max=30"`
	Phone                  string  `json:"phone" validate:"max=30"`
	SecondaryPhone         *string `json:"secondaryPhone" validate:"omitempty,max=30"`
	Email                  *string `json:"email" validate:"omitempty,max=150"`
	Address                *string `json:"address" validate:"omitempty,max=300"`
	Sector                 *string `json:"sector" validate:"omitempty,max=100"`
	City                   *string `json:"city" validate:"omitempty,max=100"`
	Notes                  *string `json:"notes" validate:"omitempty,max=1000"`
	PreferredPaymentMethod *string `json:"preferredPaymentMethod" validate:"omitempty,max=50"`
	IsActive               *bool   `json:"isActive"`
}

// ToEntity maps the request onto a client. IsActive defaults to true.
func (r *ClientRequest) ToEntity() *client.Client {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &client.Client{
		ClientType:             client.Type(r.ClientType),
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		CompanyName:            r.CompanyName,
		DocumentNumber:         r.DocumentNumber,
		Phone:                  r.Phone,
		SecondaryPhone:         r.SecondaryPhone,
		Email:                  r.Email,
		Address:                r.Address,
		Sector:                 r.Sector,
		City:                   r.City,
		Notes:                  r.Notes,
		PreferredPaymentMethod: r.PreferredPaymentMethod,
		IsActive:               active,
	}
}
