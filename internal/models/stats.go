package models

// ContatoStats summarizes how many leads were contacted and how fast.
type ContatoStats struct {
	TotalLeads         int64   `json:"totalLeads"`
	LeadsContatados    int64   `json:"leadsContatados"`
	LeadsNaoContatados int64   `json:"leadsNaoContatados"`
	PercContatados     float64 `json:"percContatados"`
	PercNaoContatados  float64 `json:"percNaoContatados"`
	TempoMedioMinutos  float64 `json:"tempoMedioMinutos"`
	TempoMedioHoras    float64 `json:"tempoMedioHoras"`
}

// TempoLoja is one row of the average-time-to-contact ranking.
type TempoLoja struct {
	LojaID            int64   `json:"loja_id"`
	LojaNome          string  `json:"loja_nome"`
	TotalLeads        int64   `json:"total_leads"`
	TempoMedioMinutos float64 `json:"tempo_medio_minutos"`
	TempoMedioHoras   float64 `json:"tempo_medio_horas"`
	Ranking           int     `json:"ranking"`
}

type OrigemItem struct {
	Origem string `json:"origem"`
	Total  int64  `json:"total"`
}

// DayCount is a lead count for one calendar day (YYYY-MM-DD).
type DayCount struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// MonthCount is a lead count for one calendar month (YYYY-MM).
type MonthCount struct {
	Month string `json:"date"`
	Total int64  `json:"total"`
}
