package api

import (
	"context"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

type TechnicianRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

func (c *Client) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	var out []domain.Technician
	err := c.get(ctx, "/api/Technician", nil, &out)
	return out, err
}

func (c *Client) ListTechnicianOptions(ctx context.Context) ([]domain.TechnicianOption, error) {
	var out []domain.TechnicianOption
	err := c.get(ctx, "/api/Technician/options", nil, &out)
	return out, err
}

func (c *Client) GetCurrentTechnician(ctx context.Context) (domain.Technician, error) {
	var out domain.Technician
	err := c.get(ctx, "/api/Technician/me", nil, &out)
	return out, err
}

func (c *Client) CreateTechnician(ctx context.Context, req TechnicianRequest) (domain.Technician, error) {
	var out domain.Technician
	err := c.post(ctx, "/api/Technician", req, &out)
	return out, err
}

func (c *Client) UpdateTechnician(ctx context.Context, id int64, req TechnicianRequest) (domain.Technician, error) {
	var out domain.Technician
	err := c.put(ctx, idPath("/api/Technician/%d", id), req, &out)
	return out, err
}

func (c *Client) DeleteTechnician(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/api/Technician/%d", id))
}
