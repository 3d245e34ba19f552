package http

import (
	"encoding/json"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
)

// EntityRequest is the body of POST /entities.
type EntityRequest struct {
	Type          string       `json:"type"`
	Name          string       `json:"name"`
	UnitPrice     *json.Number `json:"unitPrice"`
	UnitExpense   *json.Number `json:"unitExpense"`
	StartDate     string       `json:"startDate"`
	EndDate       string       `json:"endDate"`
	Status        string       `json:"status"`
	ImageURL      string       `json:"imageUrl"`
	Quantity      int          `json:"quantity"`
	Prize         string       `json:"prize"`
	PrizeImageURL string       `json:"prizeImageUrl"`
	TotalTickets  int          `json:"totalTickets"`
	Target        *json.Number `json:"target"`
}

// PatchRequest is the body of PATCH /entities/{id}. Absent fields are left
// untouched; the clear flags remove optional values.
type PatchRequest struct {
	Name             *string      `json:"name"`
	UnitPrice        *json.Number `json:"unitPrice"`
	UnitExpense      *json.Number `json:"unitExpense"`
	ClearUnitExpense bool         `json:"clearUnitExpense"`
	StartDate        *string      `json:"startDate"`
	ClearStartDate   bool         `json:"clearStartDate"`
	EndDate          *string      `json:"endDate"`
	ClearEndDate     bool         `json:"clearEndDate"`
	Status           *string      `json:"status"`
	ImageURL         *string      `json:"imageUrl"`
	Quantity         *int         `json:"quantity"`
	Prize            *string      `json:"prize"`
	PrizeImageURL    *string      `json:"prizeImageUrl"`
	Target           *json.Number `json:"target"`
}

// SaleRequest is the body of POST /entities/{id}/sales. Exactly one of the
// two fields is expected.
type SaleRequest struct {
	Quantity      *int  `json:"quantity"`
	TicketNumbers []int `json:"ticketNumbers"`
}

// EntityResponse is the JSON view of an entity.
type EntityResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	UnitPrice   string  `json:"unitPrice"`
	UnitExpense *string `json:"unitExpense,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Status      string  `json:"status"`
	ImageURL    string  `json:"imageUrl,omitempty"`

	Quantity  *int `json:"quantity,omitempty"`
	SoldCount *int `json:"soldCount,omitempty"`

	Prize             string  `json:"prize,omitempty"`
	PrizeImageURL     string  `json:"prizeImageUrl,omitempty"`
	TotalTickets      int     `json:"totalTickets,omitempty"`
	SoldTicketNumbers []int   `json:"soldTicketNumbers,omitempty"`
	CurrentAmount     *string `json:"currentAmount,omitempty"`
	Target            *string `json:"target,omitempty"`
}

// ListResponse wraps a list of entities.
type ListResponse struct {
	Entities   []EntityResponse `json:"entities"`
	TotalCount int              `json:"total_count"`
}

// AvailableTicketsResponse is one page of the unsold numbers of a raffle.
// Count is the total unsold, not the page length.
type AvailableTicketsResponse struct {
	EntityID string `json:"entity_id"`
	Count    int    `json:"count"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
	Numbers  []int  `json:"numbers"`
}

// StatsResponse is the JSON view of the catalog statistics.
type StatsResponse struct {
	TotalProducts       int    `json:"totalProducts"`
	TotalRaffles        int    `json:"totalRaffles"`
	TotalTicketsSold    int    `json:"totalTicketsSold"`
	TotalRaffleRevenue  string `json:"totalRaffleRevenue"`
	GrossProductRevenue string `json:"grossProductRevenue"`
	NetProductRevenue   string `json:"netProductRevenue"`

	ByStatus    map[string]int   `json:"byStatus"`
	ProductRows []ProductRowJSON `json:"productRows"`
	RaffleRows  []RaffleRowJSON  `json:"raffleRows"`
}

type ProductRowJSON struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	InitialQuantity int    `json:"initialQuantity"`
	Sold            int    `json:"sold"`
	InStock         int    `json:"inStock"`
	Gross           string `json:"gross"`
	Net             string `json:"net"`
}

type RaffleRowJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Prize        string `json:"prize"`
	TotalTickets int    `json:"totalTickets"`
	SoldTickets  int    `json:"soldTickets"`
	Target       string `json:"target"`
	Raised       string `json:"raised"`
}

// ErrorResponse carries a classified failure.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Numbers   []int  `json:"numbers,omitempty"`
	Requested *int   `json:"requested,omitempty"`
	Available *int   `json:"available,omitempty"`
}

func toEntityResponse(e *domain.Entity) EntityResponse {
	resp := EntityResponse{
		ID:        e.ID(),
		Type:      string(e.Type()),
		Name:      e.Name(),
		UnitPrice: domain.OrZero(e.UnitPrice()).DecimalString(),
		Status:    string(e.Status()),
		ImageURL:  e.ImageURL(),
	}

	resp.UnitExpense = optionalAmount(e.UnitExpense())
	if d := e.StartDate(); d != nil {
		s := d.String()
		resp.StartDate = &s
	}
	if d := e.EndDate(); d != nil {
		s := d.String()
		resp.EndDate = &s
	}

	switch e.Type() {
	case domain.TypeProduct:
		p, _ := e.Product()
		resp.Quantity = &p.Quantity
		resp.SoldCount = &p.SoldCount
	case domain.TypeRaffle:
		r, _ := e.Raffle()
		resp.Prize = r.Prize
		resp.PrizeImageURL = r.PrizeImageURL
		resp.TotalTickets = r.TotalTickets
		resp.SoldTicketNumbers = r.SoldTicketNumbers
		resp.CurrentAmount = optionalAmount(domain.OrZero(r.CurrentAmount))
		resp.Target = optionalAmount(r.Target)
	}

	return resp
}

func toListResponse(entities []*domain.Entity) ListResponse {
	out := ListResponse{Entities: make([]EntityResponse, 0, len(entities)), TotalCount: len(entities)}
	for _, e := range entities {
		out.Entities = append(out.Entities, toEntityResponse(e))
	}
	return out
}

func toStatsResponse(st services.Stats) StatsResponse {
	resp := StatsResponse{
		TotalProducts:       st.TotalProducts,
		TotalRaffles:        st.TotalRaffles,
		TotalTicketsSold:    st.TotalTicketsSold,
		TotalRaffleRevenue:  st.TotalRaffleRevenue.DecimalString(),
		GrossProductRevenue: st.GrossProductRevenue.DecimalString(),
		NetProductRevenue:   st.NetProductRevenue.DecimalString(),
		ByStatus: map[string]int{
			string(domain.StatusActive):    st.ByStatus.Active,
			string(domain.StatusInactive):  st.ByStatus.Inactive,
			string(domain.StatusCompleted): st.ByStatus.Completed,
		},
		ProductRows: make([]ProductRowJSON, 0, len(st.ProductRows)),
		RaffleRows:  make([]RaffleRowJSON, 0, len(st.RaffleRows)),
	}

	for _, r := range st.ProductRows {
		resp.ProductRows = append(resp.ProductRows, ProductRowJSON{
			ID:              r.ID,
			Name:            r.Name,
			InitialQuantity: r.InitialQuantity,
			Sold:            r.Sold,
			InStock:         r.InStock,
			Gross:           r.Gross.DecimalString(),
			Net:             r.Net.DecimalString(),
		})
	}
	for _, r := range st.RaffleRows {
		resp.RaffleRows = append(resp.RaffleRows, RaffleRowJSON{
			ID:           r.ID,
			Name:         r.Name,
			Prize:        r.Prize,
			TotalTickets: r.TotalTickets,
			SoldTickets:  r.SoldTickets,
			Target:       r.Target.DecimalString(),
			Raised:       r.Raised.DecimalString(),
		})
	}

	return resp
}

func optionalAmount(m *domain.Money) *string {
	if m == nil {
		return nil
	}
	s := m.DecimalString()
	return &s
}
