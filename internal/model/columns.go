package model

// Canonical column names of the persisted table.
const (
	ColID               = "Numero_OS"
	ColDate             = "Data_OS"
	ColTime             = "Hora_OS"
	ColClientName       = "Nome_Cliente"
	ColClientAddress    = "Endereco_Cliente"
	ColClientNumber     = "Numero_Imovel_Cliente"
	ColClientDistrict   = "Bairro_Cliente"
	ColClientCity       = "Cidade_Cliente"
	ColClientState      = "UF_Cliente"
	ColClientPostalCode = "CEP_Cliente"
	ColClientPhone      = "Telefone_Cliente"
	ColClientTaxID      = "CPF_CNPJ_Cliente"
	ColPlate            = "Placa_Veiculo"
	ColMake             = "Marca_Veiculo"
	ColModel            = "Modelo_Veiculo"
	ColColor            = "Cor_Veiculo"
	ColYear             = "Ano_Veiculo"
	ColMileage          = "KM_Atual_Veiculo"
	ColFuel             = "Combustivel_Veiculo"
	ColBay              = "Box_Veiculo"
	ColReportedProblem  = "Problema_Informado"
	ColDiagnosedProblem = "Problema_Constatado"
	ColPerformedService = "Servico_Executado"
	ColItems            = "Detalhes_Itens"
	ColSubtotal         = "Total_Itens"
	ColTravelFee        = "Deslocamento"
	ColDiscount         = "Desconto_Geral"
	ColTotal            = "Valor_Total_Final"
	ColResponsible      = "Responsavel"
	ColStatus           = "Situacao_Atual"
	ColPaymentTerms     = "Condicoes_Pagamento"
)

// Columns is the canonical schema in persisted order.
var Columns = []string{
	ColID, ColDate, ColTime,
	ColClientName, ColClientAddress, ColClientNumber, ColClientDistrict, ColClientCity,
	ColClientState, ColClientPostalCode, ColClientPhone, ColClientTaxID,
	ColPlate, ColMake, ColModel, ColColor, ColYear, ColMileage,
	ColFuel, ColBay,
	ColReportedProblem, ColDiagnosedProblem, ColPerformedService,
	ColItems,
	ColSubtotal,
	ColTravelFee, ColDiscount, ColTotal,
	ColResponsible, ColStatus,
	ColPaymentTerms,
}

// ColumnKind describes how a column is typed in storage.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
	KindMoney
)

// KindOf returns the storage kind of a canonical column.
func KindOf(col string) ColumnKind {
	switch col {
	case ColYear, ColMileage:
		return KindInteger
	case ColSubtotal, ColTravelFee, ColDiscount, ColTotal:
		return KindMoney
	default:
		return KindText
	}
}
