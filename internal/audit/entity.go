// entity.go

package audit

import (
	"time"
)

type Entry struct {
	ID        string    `db:"id"`
	UserID    *string   `db:"user_id"`
	Action    string    `db:"action"`
	Details   *string   `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	ActionInvoiceUpload      = "INVOICE_UPLOAD"
	ActionInvoiceEdited      = "INVOICE_EDITED"
	ActionUserRegister       = "USER_REGISTER"
	ActionUserLogin          = "USER_LOGIN"
	ActionPasswordChange     = "PASSWORD_CHANGE"
	ActionPlanCreated        = "PLAN_CREATED"
	ActionPlanStatusChanged  = "PLAN_STATUS_CHANGED"
	ActionSubscriptionChange = "SUBSCRIPTION_CHANGE"
	ActionSubscriptionToggle = "SUBSCRIPTION_TOGGLE"
	ActionPaymentSuccess     = "PAYMENT_SUCCESS"
)
