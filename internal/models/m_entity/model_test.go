package m_entity

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

func TestDecode_Malformed(t *testing.T) {
	m := NewModel()

	for _, payload := range []string{"", "null", "{}", `"x"`, "[", "42"} {
		t.Run(payload, func(t *testing.T) {
			records := m.Decode([]byte(payload))
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestDecode_TolerantFields(t *testing.T) {
	records := NewModel().Decode([]byte(`[
		{"id": 17, "name": "Mug", "unitPrice": "5.99", "quantity": "6", "soldCount": 4.7,
		 "startDate": "2026-05-01T10:00:00Z", "endDate": "soon", "status": ["bad"]},
		{"id": "r-1", "type": "raffle", "name": "Raffle", "unitPrice": 2, "totalTickets": "5",
		 "soldTicketNumbers": [1, "2", 2.5, "x"], "currentAmount": "4", "target": null},
		"not an object"
	]`))
	require.Len(t, records, 2)

	p := records[0]
	assert.Equal(t, "17", p.ID)
	assert.True(t, p.UnitPrice.Equals(domain.MustMoney(599, 100)))
	assert.Equal(t, 6, p.Quantity)
	assert.Equal(t, 4, p.SoldCount)
	assert.Equal(t, &civil.Date{Year: 2026, Month: 5, Day: 1}, p.StartDate)
	assert.Nil(t, p.EndDate)
	assert.Empty(t, p.Status)

	r := records[1]
	assert.Equal(t, 5, r.TotalTickets)
	assert.Equal(t, []int{1, 2}, r.SoldTicketNumbers)
	assert.True(t, r.CurrentAmount.Equals(domain.MustMoney(4, 1)))
	assert.Nil(t, r.Target)
}

func TestDecode_LegacyAliases(t *testing.T) {
	records := NewModel().Decode([]byte(`[
		{"id": "a", "product": "Legacy", "sold": 3},
		{"id": "b", "type": "raffle", "ticketNumbers": [4, 5]},
		{"id": "c", "name": "New", "product": "Old", "soldCount": 1, "sold": 9}
	]`))
	require.Len(t, records, 3)

	assert.Equal(t, "Legacy", records[0].Name)
	assert.Equal(t, 3, records[0].SoldCount)
	assert.Equal(t, []int{4, 5}, records[1].SoldTicketNumbers)
	assert.Equal(t, "New", records[2].Name, "current fields win over aliases")
	assert.Equal(t, 1, records[2].SoldCount)
}

func TestEncode(t *testing.T) {
	end := civil.Date{Year: 2026, Month: 12, Day: 31}
	payload, err := NewModel().Encode([]domain.RawRecord{
		{ID: "p-1", Type: "product", Name: "Mug", UnitPrice: domain.MustMoney(1, 3), Status: "active", Quantity: 2},
		{
			ID: "r-1", Type: "raffle", Name: "R", UnitPrice: domain.MustMoney(2, 1), Status: "active",
			Prize: "Bike", TotalTickets: 3, EndDate: &end,
		},
	})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	require.Len(t, raw, 2)

	assert.Equal(t, "1/3", raw[0]["unitPrice"], "non-terminating amounts stay exact")
	assert.NotContains(t, raw[0], "soldTicketNumbers")
	assert.Equal(t, "2026-12-31", raw[1]["endDate"])
	assert.Equal(t, []any{}, raw[1]["soldTicketNumbers"])
	assert.Equal(t, "0", raw[1]["currentAmount"])
}

func TestEncodeDecodeKeepsExactAmounts(t *testing.T) {
	m := NewModel()
	in := []domain.RawRecord{{
		ID: "p-1", Type: "product", Name: "Mug", Status: "active",
		UnitPrice: domain.MustMoney(1, 3), UnitExpense: domain.MustMoney(1, 8),
	}}

	payload, err := m.Encode(in)
	require.NoError(t, err)

	out := m.Decode(payload)
	require.Len(t, out, 1)
	assert.True(t, out[0].UnitPrice.Equals(domain.MustMoney(1, 3)))
	assert.True(t, out[0].UnitExpense.Equals(domain.MustMoney(1, 8)))
}
