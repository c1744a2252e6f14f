package notify_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	t.Run("register and get", func(t *testing.T) {
		t.Parallel()

		catalog, err := notify.NewCatalog(notify.Category{
			ID:              "payment_received",
			Label:           "Payment received",
			Priority:        notify.PriorityNormal,
			DefaultChannels: notify.NewSet(notify.ChannelEmail),
			Active:          true,
		})
		require.NoError(t, err)

		cat, err := catalog.Get("payment_received")
		require.NoError(t, err)
		assert.Equal(t, "Payment received", cat.Label)
		assert.True(t, cat.DefaultEnabled(notify.ChannelEmail))
		assert.False(t, cat.DefaultEnabled(notify.ChannelSMS))
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		catalog, err := notify.NewCatalog()
		require.NoError(t, err)

		_, err = catalog.Get("nope")
		assert.ErrorIs(t, err, notify.ErrUnknownCategory)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		t.Parallel()

		catalog, err := notify.NewCatalog(notify.Category{ID: "claim_update", Active: true})
		require.NoError(t, err)

		err = catalog.Register(notify.Category{ID: "claim_update", Active: true})
		assert.ErrorIs(t, err, notify.ErrCategoryExists)
	})

	t.Run("invalid categories rejected", func(t *testing.T) {
		t.Parallel()

		catalog, err := notify.NewCatalog()
		require.NoError(t, err)

		assert.ErrorIs(t, catalog.Register(notify.Category{}), notify.ErrInvalidCategory)
		assert.ErrorIs(t, catalog.Register(notify.Category{
			ID:       "bad_priority",
			Priority: notify.Priority("asap"),
		}), notify.ErrInvalidCategory)
		assert.ErrorIs(t, catalog.Register(notify.Category{
			ID:              "bad_channel",
			DefaultChannels: notify.NewSet(notify.Channel("pigeon")),
		}), notify.ErrInvalidCategory)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		t.Parallel()

		catalog, err := notify.NewCatalog(
			notify.Category{ID: "zeta", Active: true},
			notify.Category{ID: "alpha", Active: true},
		)
		require.NoError(t, err)

		list := catalog.List()
		require.Len(t, list, 2)
		assert.Equal(t, "alpha", list[0].ID)
		assert.Equal(t, "zeta", list[1].ID)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("yaml catalog", func(t *testing.T) {
		t.Parallel()

		src := `
categories:
  - id: claim_update
    label: Claim updates
    priority: high
    channels: [email, in_app]
  - id: marketing
    label: Product news
    priority: low
    channels: [email]
    active: false
`
		catalog, err := notify.LoadCatalog(strings.NewReader(src))
		require.NoError(t, err)

		claim, err := catalog.Get("claim_update")
		require.NoError(t, err)
		assert.True(t, claim.Active, "active defaults to true")
		assert.Equal(t, notify.PriorityHigh, claim.Priority)
		assert.True(t, claim.DefaultEnabled(notify.ChannelInApp))

		marketing, err := catalog.Get("marketing")
		require.NoError(t, err)
		assert.False(t, marketing.Active)
	})

	t.Run("bad yaml", func(t *testing.T) {
		t.Parallel()

		_, err := notify.LoadCatalog(strings.NewReader("categories: {"))
		assert.ErrorIs(t, err, notify.ErrInvalidCategory)
	})

	t.Run("bad channel in file", func(t *testing.T) {
		t.Parallel()

		_, err := notify.LoadCatalog(strings.NewReader(`
categories:
  - id: claim_update
    channels: [fax]
`))
		assert.ErrorIs(t, err, notify.ErrInvalidCategory)
	})
}
