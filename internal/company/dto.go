// dto.go

package company

import (
	"time"
)

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   *string   `json:"address,omitempty"`
	TaxID     *string   `json:"tax_id,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Website   *string   `json:"website,omitempty"`
	IBAN      *string   `json:"iban,omitempty"`
	BICSwift  *string   `json:"bic_swift,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToCompanyResponse(c *Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		Address:   c.Address,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Website:   c.Website,
		IBAN:      c.IBAN,
		BICSwift:  c.BICSwift,
		CreatedAt: c.CreatedAt,
	}
}

func ToCompanyResponseList(companies []Company) []CompanyResponse {
	responses := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, ToCompanyResponse(&c))
	}
	return responses
}
