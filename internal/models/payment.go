package models

// PaymentType classifies how a revenue was received.
type PaymentType string

// Payment types recognised on revenue comprovantes.
const (
	PaymentPIX      PaymentType = "PIX"
	PaymentCard     PaymentType = "Cartão"
	PaymentTransfer PaymentType = "Transferência"
	PaymentSale     PaymentType = "Vendas"
	PaymentOther    PaymentType = "Outros"
)

// PaymentTypes lists every payment type in display order.
func PaymentTypes() []PaymentType {
	return []PaymentType{PaymentPIX, PaymentCard, PaymentTransfer, PaymentSale, PaymentOther}
}

// IsValid reports whether p is one of the known payment types.
func (p PaymentType) IsValid() bool {
	for _, known := range PaymentTypes() {
		if p == known {
			return true
		}
	}
	return false
}

func (p PaymentType) String() string {
	return string(p)
}
