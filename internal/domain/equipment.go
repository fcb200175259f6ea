package domain

type Workshop struct {
	ID        int64    `json:"workShopId,omitempty"` // 未持久化的车间为 0
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Equipment struct {
	ID           int64    `json:"equipmentId"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Location     string   `json:"location"`
	SerialNumber string   `json:"serialNumber"`
	Model        string   `json:"model"`
	IsArchived   bool     `json:"isArchived"`
	Workshop     Workshop `json:"workShop"`
}
