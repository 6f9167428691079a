package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrozmen/libseed/internal/store"
	"github.com/omrozmen/libseed/internal/table"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	loc := store.Location{Path: filepath.Join(t.TempDir(), "library.db"), Table: "odunc"}

	in := table.MustNew("OduncID", "KitapID", "VerilisTarihi", "TeslimTarihi", "Durum")
	day := time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, in.AppendValues(table.Int(1), table.Int(4), table.Date(day), table.Null(), table.String("Verildi")))
	require.NoError(t, in.AppendValues(table.Int(2), table.Int(9), table.Date(day), table.Date(day.AddDate(0, 0, 3)), table.String("Teslim edildi")))

	require.NoError(t, store.Save(ctx, loc, in))
	out, err := store.Load(ctx, loc)
	require.NoError(t, err)
	assert.True(t, in.Equal(out), "got %+v", out)

	// Saving again replaces the table.
	smaller := in.Clone()
	smaller.Rows = smaller.Rows[:1]
	require.NoError(t, store.Save(ctx, loc, smaller))
	out, err = store.Load(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestMixedColumnIsText(t *testing.T) {
	ctx := context.Background()
	loc := store.Location{Format: "sqlite", DSN: filepath.Join(t.TempDir(), "mixed.db"), Table: "kitaplar"}

	in := table.MustNew("Kod")
	require.NoError(t, in.AppendValues(table.Int(1)))
	require.NoError(t, in.AppendValues(table.String("A-2")))

	require.NoError(t, store.Save(ctx, loc, in))
	out, err := store.Load(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "1", out.Rows[0].Get("Kod").String())
	assert.Equal(t, "A-2", out.Rows[1].Get("Kod").String())
}

func TestLoadRequiresTable(t *testing.T) {
	_, err := store.Load(context.Background(), store.Location{Path: filepath.Join(t.TempDir(), "x.db")})
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := store.Load(context.Background(), store.Location{Path: filepath.Join(t.TempDir(), "yok.db"), Table: "t"})
	assert.Error(t, err)
}
