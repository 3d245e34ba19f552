package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/models/m_snapshot"
)

// SeedSnapshot writes payload as the snapshot stored under key, bypassing the
// repository. payload may be anything JSON, including legacy or broken data.
func SeedSnapshot(t *testing.T, client *spanner.Client, key string, payload string, version int64) {
	t.Helper()

	var value any
	require.NoError(t, json.Unmarshal([]byte(payload), &value), "seed payload must be JSON")

	mut := m_snapshot.NewModel().UpsertMut(&m_snapshot.Data{
		SnapshotKey: key,
		Payload:     spanner.NullJSON{Value: value, Valid: true},
		Version:     version,
	})
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to seed snapshot")
}

// ProductDraft returns a valid product draft.
func ProductDraft(name string, quantity int) domain.Draft {
	return domain.Draft{
		Type:        domain.TypeProduct,
		Name:        name,
		UnitPrice:   domain.MustMoney(599, 100),
		UnitExpense: domain.MustMoney(2, 1),
		Quantity:    quantity,
	}
}

// RaffleDraft returns a valid raffle draft priced at 2 per ticket.
func RaffleDraft(name string, totalTickets int) domain.Draft {
	return domain.Draft{
		Type:         domain.TypeRaffle,
		Name:         name,
		UnitPrice:    domain.MustMoney(2, 1),
		Prize:        "Bike",
		TotalTickets: totalTickets,
	}
}
