// entity.go

package company

import (
	"time"
)

// Company rows are shared across tenants: the same supplier extracted
// from two users' invoices resolves to one row, keyed by unique name.
type Company struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Address   *string   `db:"address"`
	TaxID     *string   `db:"tax_id"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Website   *string   `db:"website"`
	IBAN      *string   `db:"iban"`
	BICSwift  *string   `db:"bic_swift"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	TypeClient   = "CLIENT"
	TypeSupplier = "SUPPLIER"
	TypeBoth     = "BOTH"
)
