package m_entity

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// Model converts between the stored JSON array and raw domain records.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Decode parses a stored payload. An empty, malformed or non-array payload
// yields no records; elements that are not JSON objects are skipped.
func (m *Model) Decode(payload []byte) []domain.RawRecord {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return []domain.RawRecord{}
	}

	records := make([]domain.RawRecord, 0, len(elements))
	for _, el := range elements {
		var data Data
		if err := json.Unmarshal(el, &data); err != nil {
			continue
		}
		records = append(records, dataToRecord(&data))
	}
	return records
}

// Encode renders records as the stored JSON array.
func (m *Model) Encode(records []domain.RawRecord) ([]byte, error) {
	data := make([]Data, len(records))
	for i := range records {
		data[i] = recordToData(&records[i])
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog records: %w", err)
	}
	return payload, nil
}

func dataToRecord(d *Data) domain.RawRecord {
	r := domain.RawRecord{
		ID:                string(d.ID),
		Type:              string(d.Type),
		Name:              string(d.Name),
		UnitPrice:         amount(d.UnitPrice),
		UnitExpense:       amount(d.UnitExpense),
		StartDate:         date(d.StartDate),
		EndDate:           date(d.EndDate),
		Status:            string(d.Status),
		ImageURL:          string(d.ImageURL),
		Quantity:          int(d.Quantity),
		SoldCount:         int(d.SoldCount),
		Prize:             string(d.Prize),
		PrizeImageURL:     string(d.PrizeImageURL),
		TotalTickets:      int(d.TotalTickets),
		SoldTicketNumbers: []int(d.SoldTicketNumbers),
		CurrentAmount:     amount(d.CurrentAmount),
		Target:            amount(d.Target),
	}

	if r.Name == "" {
		r.Name = string(d.LegacyName)
	}
	if r.SoldCount == 0 {
		r.SoldCount = int(d.LegacySoldCount)
	}
	if len(r.SoldTicketNumbers) == 0 {
		r.SoldTicketNumbers = []int(d.LegacyTicketNumbers)
	}

	return r
}

func recordToData(r *domain.RawRecord) Data {
	d := Data{
		ID:            Text(r.ID),
		Type:          Text(r.Type),
		Name:          Text(r.Name),
		Status:        Text(r.Status),
		ImageURL:      Text(r.ImageURL),
		Quantity:      Int(r.Quantity),
		SoldCount:     Int(r.SoldCount),
		Prize:         Text(r.Prize),
		PrizeImageURL: Text(r.PrizeImageURL),
		TotalTickets:  Int(r.TotalTickets),
	}

	if r.UnitPrice != nil {
		d.UnitPrice = &Amount{Money: r.UnitPrice}
	}
	if r.UnitExpense != nil {
		d.UnitExpense = &Amount{Money: r.UnitExpense}
	}
	if r.StartDate != nil {
		d.StartDate = &Date{Value: r.StartDate}
	}
	if r.EndDate != nil {
		d.EndDate = &Date{Value: r.EndDate}
	}
	if r.Type == string(domain.TypeRaffle) {
		d.SoldTicketNumbers = Ints(append([]int{}, r.SoldTicketNumbers...))
		d.CurrentAmount = &Amount{Money: domain.OrZero(r.CurrentAmount)}
	}
	if r.Target != nil {
		d.Target = &Amount{Money: r.Target}
	}

	return d
}

func amount(a *Amount) *domain.Money {
	if a == nil {
		return nil
	}
	return a.Money
}

func date(d *Date) *civil.Date {
	if d == nil {
		return nil
	}
	return d.Value
}
