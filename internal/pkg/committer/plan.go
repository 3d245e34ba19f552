// Package committer applies batches of Spanner mutations atomically.
//
// Repositories build mutations without applying them; callers collect those
// mutations into a CommitPlan and hand the plan to a Committer, which writes
// them in a single transaction. Either every mutation lands or none does.
//
// ApplyWithVersionCheck adds optimistic locking: the plan is only written if a
// version column still holds the value the caller loaded.
//
//	plan := committer.NewPlan()
//	plan.Add(model.UpsertMut(data))
//	err := c.ApplyWithVersionCheck(ctx, committer.VersionGuard{
//	    Table:    m_snapshot.TableName,
//	    Key:      spanner.Key{key},
//	    Column:   m_snapshot.Version,
//	    Expected: loadedVersion,
//	}, plan)
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
)

// ErrVersionConflict is returned when the guarded row moved since it was read.
var ErrVersionConflict = errors.New("optimistic lock conflict")

// CommitPlan is a typed wrapper around Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// VersionGuard names the row and column checked before a plan is written.
// A missing row counts as version 0.
type VersionGuard struct {
	Table    string
	Key      spanner.Key
	Column   string
	Expected int64
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// ApplyWithVersionCheck executes the CommitPlan in a read-write transaction,
// after verifying that guard.Column still equals guard.Expected.
// Returns ErrVersionConflict on mismatch.
func (c *Committer) ApplyWithVersionCheck(ctx context.Context, guard VersionGuard, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		current, err := readVersion(ctx, txn, guard)
		if err != nil {
			return err
		}

		if current != guard.Expected {
			return fmt.Errorf("%w: expected version %d, found %d", ErrVersionConflict, guard.Expected, current)
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}

	return nil
}

func readVersion(ctx context.Context, txn *spanner.ReadWriteTransaction, guard VersionGuard) (int64, error) {
	row, err := txn.ReadRow(ctx, guard.Table, guard.Key, []string{guard.Column})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read %s.%s: %w", guard.Table, guard.Column, err)
	}

	var version int64
	if err := row.Column(0, &version); err != nil {
		return 0, fmt.Errorf("failed to parse version: %w", err)
	}

	return version, nil
}
