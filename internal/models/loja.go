package models

// LojaEmail is one contact address of a store.
type LojaEmail struct {
	Email string `json:"email"`
}

// Loja is a franchise unit. Read-only reference data.
type Loja struct {
	ID          FlexInt     `json:"id"`
	Nome        string      `json:"nome"`
	Cidade      string      `json:"cidade"`
	Estado      string      `json:"estado"`
	Localizacao string      `json:"localizacao"`
	Emails      []LojaEmail `json:"emails"`
}

// LojaWithStats is a store plus the lead counters the store listing sorts on.
type LojaWithStats struct {
	Loja
	TotalLeads FlexInt `json:"totalLeads"`
	LeadsHoje  FlexInt `json:"leadsHoje"`
}

type LojaStats struct {
	Total  FlexInt `json:"total"`
	Hoje   FlexInt `json:"hoje"`
	Semana FlexInt `json:"semana"`
	Mes    FlexInt `json:"mes"`
}
