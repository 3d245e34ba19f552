package services

import (
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// StatusBreakdown counts entities per lifecycle status.
type StatusBreakdown struct {
	Active    int
	Inactive  int
	Completed int
}

// ProductRow is the per-product line of the sales report.
type ProductRow struct {
	ID              string
	Name            string
	InitialQuantity int
	Sold            int
	InStock         int
	Gross           *domain.Money
	Net             *domain.Money
}

// RaffleRow is the per-raffle line of the sales report.
type RaffleRow struct {
	ID           string
	Name         string
	Prize        string
	TotalTickets int
	SoldTickets  int
	Target       *domain.Money
	Raised       *domain.Money
}

// Stats holds the figures derived from one catalog snapshot.
type Stats struct {
	TotalProducts       int
	TotalRaffles        int
	TotalTicketsSold    int
	TotalRaffleRevenue  *domain.Money
	GrossProductRevenue *domain.Money
	NetProductRevenue   *domain.Money

	ByStatus    StatusBreakdown
	ProductRows []ProductRow
	RaffleRows  []RaffleRow
}

// Statistics computes read-only metrics. Nothing is cached between calls.
type Statistics struct{}

// NewStatistics creates a new Statistics service.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Compute derives every figure from entities. Absent amounts count as zero.
func (s *Statistics) Compute(entities []*domain.Entity) Stats {
	st := Stats{
		TotalRaffleRevenue:  domain.ZeroMoney(),
		GrossProductRevenue: domain.ZeroMoney(),
		NetProductRevenue:   domain.ZeroMoney(),
		ProductRows:         []ProductRow{},
		RaffleRows:          []RaffleRow{},
	}

	for _, e := range entities {
		switch e.Status() {
		case domain.StatusActive:
			st.ByStatus.Active++
		case domain.StatusInactive:
			st.ByStatus.Inactive++
		case domain.StatusCompleted:
			st.ByStatus.Completed++
		}

		switch e.Type() {
		case domain.TypeProduct:
			row := productRow(e)
			st.TotalProducts++
			st.GrossProductRevenue = st.GrossProductRevenue.Add(row.Gross)
			st.NetProductRevenue = st.NetProductRevenue.Add(row.Net)
			st.ProductRows = append(st.ProductRows, row)
		case domain.TypeRaffle:
			row := raffleRow(e)
			st.TotalRaffles++
			st.TotalTicketsSold += row.SoldTickets
			st.TotalRaffleRevenue = st.TotalRaffleRevenue.Add(row.Raised)
			st.RaffleRows = append(st.RaffleRows, row)
		}
	}

	return st
}

// TotalProducts counts products.
func (s *Statistics) TotalProducts(entities []*domain.Entity) int {
	return s.Compute(entities).TotalProducts
}

// TotalRaffles counts raffles.
func (s *Statistics) TotalRaffles(entities []*domain.Entity) int {
	return s.Compute(entities).TotalRaffles
}

// TotalTicketsSold sums sold tickets over raffles.
func (s *Statistics) TotalTicketsSold(entities []*domain.Entity) int {
	return s.Compute(entities).TotalTicketsSold
}

// TotalRaffleRevenue sums the collected amount over raffles.
func (s *Statistics) TotalRaffleRevenue(entities []*domain.Entity) *domain.Money {
	return s.Compute(entities).TotalRaffleRevenue
}

// GrossProductRevenue sums unit price times units sold over products.
func (s *Statistics) GrossProductRevenue(entities []*domain.Entity) *domain.Money {
	return s.Compute(entities).GrossProductRevenue
}

// NetProductRevenue is the gross product revenue minus unit expense times units sold.
func (s *Statistics) NetProductRevenue(entities []*domain.Entity) *domain.Money {
	return s.Compute(entities).NetProductRevenue
}

func productRow(e *domain.Entity) ProductRow {
	p, _ := e.Product()
	gross := domain.OrZero(e.UnitPrice()).MultiplyInt(p.SoldCount)
	expense := domain.OrZero(e.UnitExpense()).MultiplyInt(p.SoldCount)

	return ProductRow{
		ID:              e.ID(),
		Name:            e.Name(),
		InitialQuantity: p.Quantity + p.SoldCount,
		Sold:            p.SoldCount,
		InStock:         p.Quantity,
		Gross:           gross,
		Net:             gross.Subtract(expense),
	}
}

func raffleRow(e *domain.Entity) RaffleRow {
	r, _ := e.Raffle()

	return RaffleRow{
		ID:           e.ID(),
		Name:         e.Name(),
		Prize:        r.Prize,
		TotalTickets: r.TotalTickets,
		SoldTickets:  len(r.SoldTicketNumbers),
		Target:       domain.OrZero(r.Target),
		Raised:       domain.OrZero(r.CurrentAmount),
	}
}
