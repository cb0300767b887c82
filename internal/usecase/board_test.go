package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func newLoadedBoard(t *testing.T, gw *MockGateway, events EventPublisher, entries ...entity.FunnelEntry) *Board {
	t.Helper()
	gw.On("GetFunnel", mock.Anything).Return(entries, nil).Once()
	b := NewBoard(gw, nil, events, nil)
	require.NoError(t, b.Load(context.Background()))
	return b
}

func TestLoadHidesInactiveLeads(t *testing.T) {
	archived := newEntry("e2", entity.StageTop, "Bob", "b@x.com", "")
	archived.Lead.Active = false

	b := newLoadedBoard(t, new(MockGateway), nil,
		newEntry("e1", entity.StageTop, "Alice", "a@x.com", ""),
		archived,
	)

	cols := b.Columns(Filters{})
	require.Len(t, cols[entity.StageTop], 1)
	assert.Equal(t, "e1", cols[entity.StageTop][0].ID)
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	gw := new(MockGateway)
	b := newLoadedBoard(t, gw, nil, newEntry("e1", entity.StageTop, "Alice", "a@x.com", ""))

	gw.On("GetFunnel", mock.Anything).Return(nil, errors.New("timeout")).Once()
	err := b.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "failed to load", NoticeFor(err, "failed to load").Message)
	assert.Len(t, b.ItemsByStage(entity.StageTop, Filters{}), 1)
}

func TestMigrationAutoAdvancesMatchingEntry(t *testing.T) {
	gw := new(MockGateway)
	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	b := newLoadedBoard(t, gw, events,
		newEntry("e1", entity.StageTop, "Alice", "Alice@Example.com", "11999990000"),
		newEntry("e2", entity.StageTop, "Bob", "bob@example.com", "11888880000"),
	)
	gw.On("CreateClient", mock.Anything, mock.Anything).
		Return(&entity.Client{ID: "c1", Email: "alice@example.com"}, nil)
	gw.On("UpdateFunnelStage", mock.Anything, "e1", entity.StagePostSale).Return(nil)

	form, err := b.OpenMigration("e1")
	require.NoError(t, err)
	form.Data = validForm()

	_, err = b.SubmitMigration(context.Background(), form)
	require.NoError(t, err)

	e1, _ := b.Store.Get("e1")
	e2, _ := b.Store.Get("e2")
	assert.Equal(t, entity.StagePostSale, e1.Stage)
	assert.Equal(t, entity.StageTop, e2.Stage)

	events.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(ev entity.FunnelEvent) bool {
		return ev.Type == entity.EventClientMigrated && ev.Client != nil && ev.Client.ID == "c1"
	}))
	events.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(ev entity.FunnelEvent) bool {
		return ev.Type == entity.EventStageChanged && ev.EntryID == "e1" && ev.ToStage == entity.StagePostSale
	}))
}

func TestMigrationMatchesByPhoneDigits(t *testing.T) {
	gw := new(MockGateway)
	b := newLoadedBoard(t, gw, nil, newEntry("e1", entity.StageMiddle, "Alice", "old@x.com", "(11) 99999-0000"))
	gw.On("CreateClient", mock.Anything, mock.Anything).
		Return(&entity.Client{ID: "c1", Email: "new@x.com", Cellphone: "11999990000"}, nil)
	gw.On("UpdateFunnelStage", mock.Anything, "e1", entity.StagePostSale).Return(nil)

	form := &MigrationForm{LeadID: "lead-e1", Data: validForm(), Open: true}
	_, err := b.SubmitMigration(context.Background(), form)
	require.NoError(t, err)

	e1, _ := b.Store.Get("e1")
	assert.Equal(t, entity.StagePostSale, e1.Stage)
}

func TestMigrationWithoutMatchChangesNothing(t *testing.T) {
	gw := new(MockGateway)
	b := newLoadedBoard(t, gw, nil, newEntry("e1", entity.StageTop, "Alice", "a@x.com", "11999990000"))
	gw.On("CreateClient", mock.Anything, mock.Anything).
		Return(&entity.Client{ID: "c1", Email: "stranger@x.com", Phone: "2133334444"}, nil)

	form := &MigrationForm{LeadID: "other", Data: validForm(), Open: true}
	_, err := b.SubmitMigration(context.Background(), form)
	require.NoError(t, err)

	e1, _ := b.Store.Get("e1")
	assert.Equal(t, entity.StageTop, e1.Stage)
	gw.AssertNotCalled(t, "UpdateFunnelStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestMigrationLeavesPostSaleEntryAlone(t *testing.T) {
	gw := new(MockGateway)
	b := newLoadedBoard(t, gw, nil, newEntry("e1", entity.StagePostSale, "Alice", "a@x.com", ""))
	gw.On("CreateClient", mock.Anything, mock.Anything).Return(&entity.Client{ID: "c1", Email: "a@x.com"}, nil)

	form := &MigrationForm{LeadID: "lead-e1", Data: validForm(), Open: true}
	_, err := b.SubmitMigration(context.Background(), form)
	require.NoError(t, err)
	gw.AssertNotCalled(t, "UpdateFunnelStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoAdvanceFailureDoesNotFailMigration(t *testing.T) {
	gw := new(MockGateway)
	b := newLoadedBoard(t, gw, nil, newEntry("e1", entity.StageBottom, "Alice", "a@x.com", ""))
	gw.On("CreateClient", mock.Anything, mock.Anything).Return(&entity.Client{ID: "c1", Email: "a@x.com"}, nil)
	gw.On("UpdateFunnelStage", mock.Anything, "e1", entity.StagePostSale).Return(errors.New("boom"))

	form := &MigrationForm{LeadID: "lead-e1", Data: validForm(), Open: true}
	client, err := b.SubmitMigration(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "c1", client.ID)
	assert.False(t, form.Open)

	e1, _ := b.Store.Get("e1")
	assert.Equal(t, entity.StageBottom, e1.Stage)
}

func TestPublishFailureIsNotSurfaced(t *testing.T) {
	gw := new(MockGateway)
	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	b := newLoadedBoard(t, gw, events, newEntry("e1", entity.StageTop, "Alice", "a@x.com", ""))
	gw.On("UpdateFunnelStage", mock.Anything, "e1", entity.StageMiddle).Return(nil)

	change, err := b.Advance(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageMiddle, change.To)
	events.AssertNumberOfCalls(t, "Publish", 1)
}

func TestArchivePublishesReason(t *testing.T) {
	gw := new(MockGateway)
	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(ev entity.FunnelEvent) bool {
		return ev.Type == entity.EventLeadArchived && ev.Reason == "no budget" && ev.LeadID == "lead-e1"
	})).Return(nil)

	b := newLoadedBoard(t, gw, events, newEntry("e1", entity.StageMiddle, "Alice", "a@x.com", ""))
	gw.On("UpdateLead", mock.Anything, "lead-e1", mock.Anything).Return(nil)

	_, err := b.Archive(context.Background(), "e1", "no budget")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Store.Len())
	events.AssertExpectations(t)
}

func TestClosedBoardIgnoresLateResults(t *testing.T) {
	gw := new(MockGateway)
	b := newLoadedBoard(t, gw, nil, newEntry("e1", entity.StageTop, "Alice", "a@x.com", ""))
	gw.On("UpdateLead", mock.Anything, "lead-e1", mock.Anything).
		Run(func(mock.Arguments) { b.Close() }).
		Return(nil)

	_, err := b.Archive(context.Background(), "e1", "no budget")
	require.NoError(t, err)

	_, ok := b.Store.Get("e1")
	assert.True(t, ok, "store detached before the response arrived")
}

func TestOpenMigrationUnknownEntry(t *testing.T) {
	b := newLoadedBoard(t, new(MockGateway), nil)
	_, err := b.OpenMigration("nope")
	assert.True(t, HasDomainCode(err, CodeEntryNotFound))
}
