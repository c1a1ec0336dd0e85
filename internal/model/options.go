package model

// ItemKind classifies a line item.
type ItemKind string

const (
	ItemKindLabor   ItemKind = "Mão de obra"
	ItemKindPart    ItemKind = "Peça"
	ItemKindService ItemKind = "Serviço"
)

// ItemKinds lists the selectable item kinds in display order.
var ItemKinds = []ItemKind{ItemKindLabor, ItemKindPart, ItemKindService}

// FuelType is the fuel used by the vehicle. The empty value means
// "not selected".
type FuelType string

const (
	FuelGasoline FuelType = "Gasolina"
	FuelEthanol  FuelType = "Etanol"
	FuelFlex     FuelType = "Flex"
	FuelDiesel   FuelType = "Diesel"
	FuelCNG      FuelType = "GNV"
	FuelElectric FuelType = "Elétrico"
	FuelHybrid   FuelType = "Híbrido"
)

var FuelTypes = []FuelType{
	FuelGasoline, FuelEthanol, FuelFlex, FuelDiesel, FuelCNG, FuelElectric, FuelHybrid,
}

// Bay is the workshop position where the vehicle is parked.
type Bay string

const (
	Bay1    Bay = "Box 1"
	Bay2    Bay = "Box 2"
	Bay3    Bay = "Box 3"
	Bay4    Bay = "Box 4"
	BayYard Bay = "Pátio"
)

var Bays = []Bay{Bay1, Bay2, Bay3, Bay4, BayYard}

// Status is the lifecycle state of a work order.
type Status string

const (
	StatusEstimate     Status = "Orçamento"
	StatusApproved     Status = "Aprovado"
	StatusInProgress   Status = "Em Andamento"
	StatusWaitingParts Status = "Aguardando Peças"
	StatusFinished     Status = "Finalizado"
	StatusDelivered    Status = "Entregue"
)

var Statuses = []Status{
	StatusEstimate, StatusApproved, StatusInProgress,
	StatusWaitingParts, StatusFinished, StatusDelivered,
}

// PaymentTerms is how the customer pays.
type PaymentTerms string

const (
	PaymentUpfront     PaymentTerms = "À Vista"
	PaymentPix         PaymentTerms = "PIX"
	PaymentCredit      PaymentTerms = "Cartão Crédito"
	PaymentDebit       PaymentTerms = "Cartão Débito"
	PaymentCash        PaymentTerms = "Dinheiro"
	PaymentBankSlip    PaymentTerms = "Boleto"
	PaymentInstallment PaymentTerms = "Parcelado"
)

var PaymentTermsOptions = []PaymentTerms{
	PaymentUpfront, PaymentPix, PaymentCredit, PaymentDebit,
	PaymentCash, PaymentBankSlip, PaymentInstallment,
}
