package m_entity

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// Data is the storage shape of one entity. Every field tolerates a wrong JSON
// type by decoding to its zero value, so one bad field never discards a record.
type Data struct {
	ID          Text    `json:"id"`
	Type        Text    `json:"type"`
	Name        Text    `json:"name"`
	UnitPrice   *Amount `json:"unitPrice,omitempty"`
	UnitExpense *Amount `json:"unitExpense,omitempty"`
	StartDate   *Date   `json:"startDate,omitempty"`
	EndDate     *Date   `json:"endDate,omitempty"`
	Status      Text    `json:"status"`
	ImageURL    Text    `json:"imageUrl,omitempty"`

	Quantity  Int `json:"quantity"`
	SoldCount Int `json:"soldCount"`

	Prize             Text    `json:"prize,omitempty"`
	PrizeImageURL     Text    `json:"prizeImageUrl,omitempty"`
	TotalTickets      Int     `json:"totalTickets,omitempty"`
	SoldTicketNumbers Ints    `json:"soldTicketNumbers,omitzero"`
	CurrentAmount     *Amount `json:"currentAmount,omitempty"`
	Target            *Amount `json:"target,omitempty"`

	LegacyName          Text `json:"product,omitempty"`
	LegacySoldCount     Int  `json:"sold,omitempty"`
	LegacyTicketNumbers Ints `json:"ticketNumbers,omitempty"`
}

// Text decodes any JSON scalar into a string; objects and arrays become "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = Text(n.String())
		return nil
	}
	*t = ""
	return nil
}

// Int decodes a JSON number or numeric string, truncating fractions.
// Anything else decodes to 0.
type Int int

func (i *Int) UnmarshalJSON(b []byte) error {
	*i = 0
	f, ok := parseNumber(b)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	*i = Int(int(f))
	return nil
}

// Ints decodes an array of numbers. A non-array decodes to nil and
// unreadable elements are dropped.
type Ints []int

func (is *Ints) UnmarshalJSON(b []byte) error {
	*is = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, r := range raw {
		f, ok := parseNumber(r)
		if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			continue
		}
		out = append(out, int(f))
	}
	*is = out
	return nil
}

// Amount holds an exact decimal. It is written as a JSON string to keep every
// digit and read from either a number or a string. Unparseable input leaves
// Money nil.
type Amount struct {
	Money *domain.Money
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Money = nil
	text := strings.TrimSpace(string(b))
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		text = s
	}
	if text == "" || text == "null" {
		return nil
	}
	if m, err := domain.ParseMoney(text); err == nil {
		a.Money = m
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Money == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.Money.DecimalString())
}

// Date is an optional calendar date in YYYY-MM-DD form. Empty or invalid text
// leaves Value nil.
type Date struct {
	Value *civil.Date
}

func (d *Date) UnmarshalJSON(b []byte) error {
	d.Value = nil
	var s string
	if err := json.Unmarshal(b, &s); err != nil || strings.TrimSpace(s) == "" {
		return nil
	}
	if len(s) > 10 {
		s = s[:10] // tolerate full timestamps
	}
	if parsed, err := civil.ParseDate(s); err == nil {
		d.Value = &parsed
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value.String())
}

func parseNumber(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		b = []byte(strings.TrimSpace(strings.Replace(s, ",", ".", 1)))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
