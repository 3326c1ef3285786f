package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/noxus/leadops/internal/models"
)

// ContatoStats fetches the contact summary. Every numeric field may arrive
// as a string and is coerced, falling back to zero.
func (c *Client) ContatoStats(ctx context.Context, token string) (models.ContatoStats, error) {
	var resp struct {
		Data struct {
			TotalLeads         models.FlexInt   `json:"total_leads"`
			LeadsContatados    models.FlexInt   `json:"leads_contatados"`
			LeadsNaoContatados models.FlexInt   `json:"leads_nao_contatados"`
			PercContatados     models.FlexFloat `json:"perc_contatados"`
			PercNaoContatados  models.FlexFloat `json:"perc_nao_contatados"`
			TempoMedioMinutos  models.FlexFloat `json:"tempo_medio_minutos"`
			TempoMedioHoras    models.FlexFloat `json:"tempo_medio_horas"`
		} `json:"data"`
	}
	if err := c.getAPI(ctx, token, "leads-stats-service", nil, &resp); err != nil {
		return models.ContatoStats{}, err
	}
	d := resp.Data
	return models.ContatoStats{
		TotalLeads:         d.TotalLeads.Int64(),
		LeadsContatados:    d.LeadsContatados.Int64(),
		LeadsNaoContatados: d.LeadsNaoContatados.Int64(),
		PercContatados:     d.PercContatados.Float64(),
		PercNaoContatados:  d.PercNaoContatados.Float64(),
		TempoMedioMinutos:  d.TempoMedioMinutos.Float64(),
		TempoMedioHoras:    d.TempoMedioHoras.Float64(),
	}, nil
}

// TempoPorLoja fetches the average-time-to-contact ranking, ordered by
// ranking.
func (c *Client) TempoPorLoja(ctx context.Context, token string) ([]models.TempoLoja, error) {
	var resp struct {
		Data []struct {
			LojaID            models.FlexInt   `json:"loja_id"`
			LojaNome          string           `json:"loja_nome"`
			TotalLeads        models.FlexInt   `json:"total_leads"`
			TempoMedioMinutos models.FlexFloat `json:"tempo_medio_minutos"`
			TempoMedioHoras   models.FlexFloat `json:"tempo_medio_horas"`
			Ranking           models.FlexInt   `json:"ranking"`
		} `json:"data"`
	}
	if err := c.getAPI(ctx, token, "leads-tempo-por-loja", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]models.TempoLoja, 0, len(resp.Data))
	for _, r := range resp.Data {
		out = append(out, models.TempoLoja{
			LojaID:            r.LojaID.Int64(),
			LojaNome:          r.LojaNome,
			TotalLeads:        r.TotalLeads.Int64(),
			TempoMedioMinutos: r.TempoMedioMinutos.Float64(),
			TempoMedioHoras:   r.TempoMedioHoras.Float64(),
			Ranking:           int(r.Ranking.Int64()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ranking < out[j].Ranking })
	return out, nil
}

func dateRange(from, to string) url.Values {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	return q
}

// decodeList accepts a bare array or an object wrapping it under "data".
func decodeList(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return err
	}
	if len(wrapped.Data) == 0 || string(wrapped.Data) == "null" {
		return nil
	}
	return json.Unmarshal(wrapped.Data, out)
}

func (c *Client) LeadsPorOrigem(ctx context.Context, token, from, to string) ([]models.OrigemItem, error) {
	var raw json.RawMessage
	if err := c.getAPI(ctx, token, "leads-por-origem", dateRange(from, to), &raw); err != nil {
		return nil, err
	}
	var rows []struct {
		Origem string         `json:"origem"`
		Total  models.FlexInt `json:"total"`
	}
	if err := decodeList(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode leads-por-origem: %w", err)
	}
	out := make([]models.OrigemItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.OrigemItem{Origem: r.Origem, Total: r.Total.Int64()})
	}
	return out, nil
}

// LeadsPorDia fetches the per-day lead series between from and to.
func (c *Client) LeadsPorDia(ctx context.Context, token, from, to string) ([]models.DayCount, error) {
	var raw json.RawMessage
	if err := c.getAPI(ctx, token, "leads-30dias", dateRange(from, to), &raw); err != nil {
		return nil, err
	}
	var rows []seriesPoint
	if err := decodeList(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode leads-30dias: %w", err)
	}
	out := make([]models.DayCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.DayCount{Date: r.Date, Total: r.Total.Int64()})
	}
	return out, nil
}
