package api

import (
	"context"
	"net/url"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

type CreateEquipmentRequest struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Location     string          `json:"location"`
	SerialNumber string          `json:"serialNumber"`
	Model        string          `json:"model"`
	Workshop     domain.Workshop `json:"workShop"`
}

func (c *Client) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := c.get(ctx, "/api/Equipment", nil, &out)
	return out, err
}

func (c *Client) ListArchivedEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := c.get(ctx, "/api/Equipment/archived", nil, &out)
	return out, err
}

func (c *Client) SearchEquipment(ctx context.Context, name string) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := c.get(ctx, "/api/Equipment/search", url.Values{"name": {name}}, &out)
	return out, err
}

func (c *Client) GetEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	var out domain.Equipment
	err := c.get(ctx, idPath("/api/Equipment/%d", id), nil, &out)
	return out, err
}

func (c *Client) CreateEquipment(ctx context.Context, req CreateEquipmentRequest) (domain.Equipment, error) {
	var out domain.Equipment
	err := c.post(ctx, "/api/Equipment", req, &out)
	return out, err
}

func (c *Client) UpdateEquipment(ctx context.Context, eq domain.Equipment) (domain.Equipment, error) {
	var out domain.Equipment
	err := c.put(ctx, idPath("/api/Equipment/%d", eq.ID), eq, &out)
	return out, err
}

func (c *Client) DeleteEquipment(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/api/Equipment/%d", id))
}

func (c *Client) ArchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	var out domain.Equipment
	err := c.put(ctx, idPath("/api/Equipment/%d/archive", id), nil, &out)
	return out, err
}

func (c *Client) UnarchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	var out domain.Equipment
	err := c.put(ctx, idPath("/api/Equipment/%d/unarchive", id), nil, &out)
	return out, err
}

func (c *Client) AssignEquipmentType(ctx context.Context, id int64, equipmentType string) error {
	body := map[string]string{"type": equipmentType}
	return c.put(ctx, idPath("/api/Equipment/%d/type", id), body, nil)
}

func (c *Client) AssignEquipmentWorkshop(ctx context.Context, id int64, ws domain.Workshop) (domain.Workshop, error) {
	var out domain.Workshop
	err := c.put(ctx, idPath("/api/Equipment/%d/workshop", id), ws, &out)
	return out, err
}
