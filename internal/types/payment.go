package types

import (
	ierr "github.com/servexhq/servex/internal/errors"
)

// PaymentMethod is the channel a payment was received through.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodBankTransfer,
		PaymentMethodMobileMoney,
		PaymentMethodCard,
		PaymentMethodOther,
	}
	for _, method := range allowed {
		if m == method {
			return nil
		}
	}
	return ierr.NewError("invalid payment method").
		WithHintf("payment method must be one of %v", allowed).
		Mark(ierr.ErrValidation)
}
