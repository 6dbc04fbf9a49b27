package ports

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/rpn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReportStoreContract runs a suite of tests to verify that a ReportStore implementation
// adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	reportID := "contract-test-report-" + time.Now().Format("20060102150405")

	newReport := func(id string) *domain.Report {
		r := domain.NewReport(id, "contract.txt")
		r.Add(domain.NewOutcome(domain.NewExpression(1, "3 5 +"), 8, nil))
		r.Add(domain.NewOutcome(domain.NewExpression(2, "3 5 &"), 0,
			&rpn.Error{Kind: rpn.KindInvalidToken, Token: "&", Position: 2}))
		r.Add(domain.NewOutcome(domain.NewExpression(4, "1e308 10 *"), math.Inf(1), nil))
		return r
	}

	t.Run("Save and Load", func(t *testing.T) {
		report := newReport(reportID)

		err := store.Save(ctx, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, reportID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.ID, loaded.ID)
		assert.Equal(t, report.Source, loaded.Source)
		assert.Equal(t, report.Summary, loaded.Summary)
		require.Len(t, loaded.Outcomes, 3)
		assert.Equal(t, domain.Number(8), loaded.Outcomes[0].Value)
		require.NotNil(t, loaded.Outcomes[1].Failure)
		assert.Equal(t, "invalid_token", loaded.Outcomes[1].Failure.Kind)
		require.NotNil(t, loaded.Outcomes[1].Failure.Position)
		assert.Equal(t, 2, *loaded.Outcomes[1].Failure.Position)
		assert.True(t, math.IsInf(float64(loaded.Outcomes[2].Value), 1))
		assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		report := newReport(reportID)
		report.Add(domain.NewOutcome(domain.NewExpression(5, "1 1 +"), 2, nil))
		require.NoError(t, store.Save(ctx, report))

		loaded, err := store.Load(ctx, reportID)
		require.NoError(t, err)
		assert.Len(t, loaded.Outcomes, 4)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+reportID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newReport(reportID))
		require.NoError(t, err)

		err = store.Delete(ctx, reportID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, reportID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")

		assert.NoError(t, store.Delete(ctx, reportID), "Delete should be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := reportID + "-1"
		id2 := reportID + "-2"
		_ = store.Save(ctx, newReport(id1))
		_ = store.Save(ctx, newReport(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
