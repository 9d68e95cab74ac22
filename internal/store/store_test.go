package store

import (
	"testing"
	"time"

	"github.com/harambee/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(phone string) models.User {
	return models.User{
		Name:         "Amina Otieno",
		Email:        "amina@example.com",
		Phone:        phone,
		PasswordHash: "salt$hash",
	}
}

func TestNew_SeedsDemoGroup(t *testing.T) {
	s := New()

	g, err := s.Group(models.DemoGroupID)
	require.NoError(t, err)
	assert.Equal(t, "Harambee Demo Group", g.Name)
	assert.Equal(t, float64(1250000), g.TreasuryBalance)
	require.Len(t, g.Members, 1)
	assert.Equal(t, DemoUserPhone, g.Members[0].Phone)
	require.Len(t, g.Transactions, 1)
	assert.Equal(t, "t1", g.Transactions[0].ID)
	assert.Empty(t, g.LatestProposals)
}

func TestStore_CreateUser(t *testing.T) {
	t.Run("stores pending user and joins group", func(t *testing.T) {
		s := New()

		u, err := s.CreateUser(newTestUser("+254700000001"))
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, models.KYCStatusPending, u.KYCStatus)

		got, err := s.UserByPhone("+254700000001")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		members, err := s.Members(models.DemoGroupID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("missing fields store nothing", func(t *testing.T) {
		cases := map[string]func(*models.User){
			"name":     func(u *models.User) { u.Name = "" },
			"email":    func(u *models.User) { u.Email = "" },
			"phone":    func(u *models.User) { u.Phone = "" },
			"password": func(u *models.User) { u.PasswordHash = "" },
		}
		for field, mutate := range cases {
			t.Run(field, func(t *testing.T) {
				s := New()
				u := newTestUser("+254700000002")
				mutate(&u)

				_, err := s.CreateUser(u)
				assert.ErrorIs(t, err, ErrValidation)

				_, err = s.UserByPhone("+254700000002")
				assert.ErrorIs(t, err, ErrNotFound)
				members, _ := s.Members(models.DemoGroupID)
				assert.Len(t, members, 1)
			})
		}
	})

	t.Run("same phone overwrites", func(t *testing.T) {
		s := New()
		first, err := s.CreateUser(newTestUser("+254700000003"))
		require.NoError(t, err)

		again := newTestUser("+254700000003")
		again.Name = "Amina O."
		second, err := s.CreateUser(again)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		got, _ := s.UserByPhone("+254700000003")
		assert.Equal(t, "Amina O.", got.Name)
		members, _ := s.Members(models.DemoGroupID)
		assert.Len(t, members, 2)
	})
}

func TestStore_KYC(t *testing.T) {
	s := New()
	_, err := s.CreateUser(newTestUser("+254700000004"))
	require.NoError(t, err)

	_, err = s.MarkKYCVerified("+254700000004")
	require.NoError(t, err)

	status, err := s.KYCStatus("+254700000004")
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusPending, status, "status stays pending until a document is uploaded")

	_, err = s.SetKYCDocument("+254700000004", models.KYCDocument{FileName: "id.png", Size: 42})
	require.NoError(t, err)

	status, err = s.KYCStatus("+254700000004")
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusVerified, status)

	_, err = s.KYCStatus("+254799999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Group_UnknownID(t *testing.T) {
	s := New()

	_, err := s.Group("other")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Members("other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CreditTreasury(t *testing.T) {
	s := New()

	balance, tx, err := s.CreditTreasury(1000, "sync")
	require.NoError(t, err)
	assert.Equal(t, float64(1251000), balance)
	assert.Equal(t, models.TransactionStatusExecuted, tx.Status)

	got, err := s.Transaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx, got)

	g, _ := s.Group(models.DemoGroupID)
	assert.Len(t, g.Transactions, 2)

	_, _, err = s.CreditTreasury(0, "sync")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Transaction("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CreateProposal(t *testing.T) {
	s := New()

	first, err := s.CreateProposal(models.Proposal{Title: "Water tank", Amount: 20000, WalletAddress: "0xabc"}, nil)
	require.NoError(t, err)
	second, err := s.CreateProposal(models.Proposal{Title: "Seeds", Amount: 5000, WalletAddress: "0xdef"}, &models.ProposalImage{
		ContentType: "image/png",
		Data:        []byte{1, 2, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, models.VoteTally{}, first.Votes)
	assert.Equal(t, models.VoteTally{}, second.Votes)
	assert.Empty(t, first.ImageURL)
	assert.Contains(t, second.ImageURL, second.ID)

	g, _ := s.Group(models.DemoGroupID)
	require.Len(t, g.LatestProposals, 2)
	assert.Equal(t, second.ID, g.LatestProposals[0].ID)
	assert.Equal(t, first.ID, g.LatestProposals[1].ID)

	img, err := s.ProposalImage(second.ID)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "image/png", img.ContentType)

	img, err = s.ProposalImage(first.ID)
	require.NoError(t, err)
	assert.Nil(t, img)

	_, err = s.CreateProposal(models.Proposal{Amount: 10, WalletAddress: "0x1"}, nil)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.CreateProposal(models.Proposal{Title: "x", Amount: 0, WalletAddress: "0x1"}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStore_CastVote(t *testing.T) {
	s := New()
	p, err := s.CreateProposal(models.Proposal{Title: "Borehole", Amount: 100, WalletAddress: "0x1"}, nil)
	require.NoError(t, err)

	tally, err := s.CastVote(p.ID, "+254700000001", models.VoteYes)
	require.NoError(t, err)
	assert.Equal(t, models.VoteTally{Yes: 1}, tally)

	t.Run("same choice is idempotent", func(t *testing.T) {
		tally, err := s.CastVote(p.ID, "+254700000001", models.VoteYes)
		require.NoError(t, err)
		assert.Equal(t, models.VoteTally{Yes: 1}, tally)
	})

	t.Run("changed choice conflicts", func(t *testing.T) {
		_, err := s.CastVote(p.ID, "+254700000001", models.VoteNo)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("other voter counts", func(t *testing.T) {
		tally, err := s.CastVote(p.ID, "+254700000002", models.VoteNo)
		require.NoError(t, err)
		assert.Equal(t, models.VoteTally{Yes: 1, No: 1}, tally)
	})

	t.Run("invalid choice", func(t *testing.T) {
		_, err := s.CastVote(p.ID, "+254700000003", "maybe")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown proposal", func(t *testing.T) {
		_, err := s.CastVote("p_missing", "+254700000003", models.VoteYes)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_AddSimulatedVotes_NeverDecreases(t *testing.T) {
	s := New()
	p, err := s.CreateProposal(models.Proposal{Title: "Borehole", Amount: 100, WalletAddress: "0x1"}, nil)
	require.NoError(t, err)

	prev := models.VoteTally{}
	for i := 0; i < 20; i++ {
		tally, err := s.AddSimulatedVotes(p.ID, i%2 == 0, i%5 == 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, tally.Yes, prev.Yes)
		assert.GreaterOrEqual(t, tally.No, prev.No)
		prev = tally
	}
	assert.Equal(t, models.VoteTally{Yes: 10, No: 4}, prev)
}

func TestStore_Notifications(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s := New(WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))

	for i := 0; i < 15; i++ {
		s.AddNotification(models.NotificationTypeVoting, "voting started")
	}

	got := s.Notifications(10)
	require.Len(t, got, 10)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt), "notifications must be newest first")
	}

	assert.Len(t, s.Notifications(100), 15)
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	s := New()
	p, err := s.CreateProposal(models.Proposal{Title: "Borehole", Amount: 100, WalletAddress: "0x1"}, nil)
	require.NoError(t, err)

	g, _ := s.Group(models.DemoGroupID)
	g.Members[0].Name = "changed"
	g.LatestProposals[0].Votes.Yes = 99

	fresh, _ := s.Group(models.DemoGroupID)
	assert.Equal(t, "Demo User", fresh.Members[0].Name)
	votes, _ := s.Votes(p.ID)
	assert.Equal(t, 0, votes.Yes)
}
