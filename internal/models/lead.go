package models

import (
	"strings"
	"time"
)

// Lead is a prospective customer owned by the upstream API. Only the
// atendido flag is ever changed locally.
type Lead struct {
	ID                      FlexInt  `json:"id"`
	Nome                    string   `json:"nome"`
	Email                   string   `json:"email"`
	Telefone                string   `json:"telefone"`
	Cidade                  string   `json:"cidade"`
	Estado                  string   `json:"estado"`
	Interesse               string   `json:"interesse"`
	ExpectativaInvestimento string   `json:"expectativa_investimento"`
	LojaRegiao              string   `json:"loja_regiao"`
	Mensagem                string   `json:"mensagem"`
	Origem                  string   `json:"origem,omitempty"`
	PipefyCardID            *string  `json:"pipefy_card_id"`
	LojaID                  FlexInt  `json:"loja_id"`
	LojaNome                string   `json:"loja_nome"`
	LojaCidade              string   `json:"loja_cidade,omitempty"`
	LojaEstado              string   `json:"loja_estado,omitempty"`
	DataCriacao             string   `json:"data_criacao"`
	DataAtualizacao         string   `json:"data_atualizacao"`
	Atendido                FlexBool `json:"atendido"`
}

// StoreID returns the lead's store, or nil when the lead is not bound to one.
func (l Lead) StoreID() *int64 {
	if l.LojaID <= 0 {
		return nil
	}
	id := int64(l.LojaID)
	return &id
}

// CreatedAt parses data_criacao in loc. ok is false when the field is blank or malformed.
func (l Lead) CreatedAt(loc *time.Location) (time.Time, bool) {
	t, err := ParseTimestamp(l.DataCriacao, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LeadAction is one registered contact event in a lead's history.
type LeadAction struct {
	ID          FlexInt `json:"id"`
	LeadID      FlexInt `json:"lead_id"`
	TipoContato string  `json:"tipo_contato"`
	Observacao  string  `json:"observacao"`
	UsuarioID   FlexInt `json:"usuario_id"`
	UsuarioNome string  `json:"usuario_nome,omitempty"`
	DataCriacao string  `json:"data_criacao"`
}

// LeadsPage is the upstream envelope for a page of leads.
type LeadsPage struct {
	Success    bool    `json:"success"`
	Leads      []Lead  `json:"leads"`
	Total      FlexInt `json:"total"`
	Page       FlexInt `json:"page"`
	PerPage    FlexInt `json:"per_page"`
	TotalPages FlexInt `json:"total_pages"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the date formats the upstream API and the query
// string use. Values without an offset are interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
