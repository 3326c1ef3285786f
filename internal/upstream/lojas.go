package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/noxus/leadops/internal/models"
)

func (c *Client) ListLojas(ctx context.Context, token string) ([]models.Loja, error) {
	var resp struct {
		Lojas []models.Loja `json:"lojas"`
	}
	if err := c.getAPI(ctx, token, "lojas", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Lojas == nil {
		return []models.Loja{}, nil
	}
	return resp.Lojas, nil
}

func (c *Client) ListLojasWithStats(ctx context.Context, token string) ([]models.LojaWithStats, error) {
	var resp struct {
		Lojas []models.LojaWithStats `json:"lojas"`
	}
	if err := c.getAPI(ctx, token, "lojas-with-stats", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Lojas == nil {
		return []models.LojaWithStats{}, nil
	}
	return resp.Lojas, nil
}

func (c *Client) GetLoja(ctx context.Context, token string, id int64) (*models.Loja, error) {
	var resp struct {
		Loja *models.Loja `json:"loja"`
	}
	path := fmt.Sprintf("lojas/%d", id)
	if err := c.getAPI(ctx, token, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Loja == nil {
		return nil, &Error{Endpoint: path, Status: 404, Message: "Loja não encontrada"}
	}
	return resp.Loja, nil
}

func (c *Client) LojaStats(ctx context.Context, token string, id int64) (models.LojaStats, error) {
	var resp struct {
		Stats models.LojaStats `json:"stats"`
	}
	err := c.getAPI(ctx, token, fmt.Sprintf("lojas/%d/stats", id), nil, &resp)
	return resp.Stats, err
}

type seriesPoint struct {
	Date  string         `json:"date"`
	Total models.FlexInt `json:"total"`
}

func (c *Client) series(ctx context.Context, token, path string, query url.Values) ([]seriesPoint, error) {
	var resp struct {
		Data []seriesPoint `json:"data"`
	}
	if err := c.getAPI(ctx, token, path, query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) LojaLeads30Days(ctx context.Context, token string, id int64) ([]models.DayCount, error) {
	points, err := c.series(ctx, token, fmt.Sprintf("lojas/%d/leads-30-days", id), nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.DayCount, 0, len(points))
	for _, p := range points {
		out = append(out, models.DayCount{Date: p.Date, Total: p.Total.Int64()})
	}
	return out, nil
}

func (c *Client) LojaLeads12Months(ctx context.Context, token string, id int64) ([]models.MonthCount, error) {
	points, err := c.series(ctx, token, fmt.Sprintf("lojas/%d/leads-12-months", id), nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.MonthCount, 0, len(points))
	for _, p := range points {
		out = append(out, models.MonthCount{Month: p.Date, Total: p.Total.Int64()})
	}
	return out, nil
}

func (c *Client) LojaLeads(ctx context.Context, token string, id int64, page, perPage int) (*models.LeadsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var resp models.LeadsPage
	if err := c.getAPI(ctx, token, fmt.Sprintf("lojas/%d/leads", id), q, &resp); err != nil {
		return nil, err
	}
	if resp.Leads == nil {
		resp.Leads = []models.Lead{}
	}
	return &resp, nil
}
