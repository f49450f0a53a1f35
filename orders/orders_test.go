package orders

import (
	"testing"

	"vitrine/models"

	"github.com/stretchr/testify/assert"
)

func validPayload() orderPayload {
	return orderPayload{
		CustomerName:    "Amine B",
		CustomerPhone:   "0551234567",
		CustomerAddress: "12 rue Didouche, Alger",
		Items: []models.OrderItem{
			{ItemID: "P1", Name: "Clavier", Price: 1000, Quantity: 2},
		},
		Total: 2000,
	}
}

func TestOrderPayloadValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*orderPayload)
		want   string
	}{
		{"valid", func(p *orderPayload) {}, ""},
		{"missing name", func(p *orderPayload) { p.CustomerName = "" }, "Customer name is required"},
		{"bad phone", func(p *orderPayload) { p.CustomerPhone = "not-a-phone" }, "A valid phone number is required"},
		{"missing address", func(p *orderPayload) { p.CustomerAddress = "" }, "Delivery address is required"},
		{"no items", func(p *orderPayload) { p.Items = nil }, "Order must contain at least one item"},
		{"item without id", func(p *orderPayload) { p.Items[0].ItemID = "" }, "Every item needs an id and a name"},
		{"zero quantity", func(p *orderPayload) { p.Items[0].Quantity = 0 }, "Item quantities must be positive"},
		{"negative price", func(p *orderPayload) { p.Items[0].Price = -1 }, "Item prices cannot be negative"},
		{"negative total", func(p *orderPayload) { p.Total = -5 }, "Total cannot be negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			tc.mutate(&p)
			assert.Equal(t, tc.want, p.validate())
		})
	}
}
