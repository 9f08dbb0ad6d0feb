package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionRepo_AppendAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	ctx := context.Background()
	sub := testutil.NewTestSubmission(st, "emp-1")
	require.NoError(t, NewSQLiteSubmissionRepo(db).Create(ctx, sub))

	repo := NewSQLiteTransitionRepo(db)
	now := time.Now().UTC()
	for i, to := range []domain.TierStatus{domain.TierApproved, domain.TierRejected} {
		from := domain.TierPending
		if i > 0 {
			from = domain.TierApproved
		}
		require.NoError(t, repo.Append(ctx, &domain.TierTransition{
			ID:            uuid.New().String(),
			SubmissionID:  sub.ID,
			Seq:           i + 1,
			Tier:          domain.TierTeamLead,
			From:          from,
			To:            to,
			ActorID:       "lead-1",
			ActorRole:     domain.RoleTeamLead,
			OverallBefore: domain.OverallPending,
			OverallAfter:  domain.OverallStatus(to),
			CreatedAt:     now,
		}))
	}

	log, err := repo.ListBySubmission(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, domain.TierApproved, log[0].To)
	assert.Equal(t, domain.TierApproved, log[1].From)
	assert.Equal(t, domain.TierRejected, log[1].To)
	assert.Equal(t, domain.RoleTeamLead, log[1].ActorRole)
}

func TestTransitionRepo_DuplicateSeqRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	ctx := context.Background()
	sub := testutil.NewTestSubmission(st, "emp-1")
	require.NoError(t, NewSQLiteSubmissionRepo(db).Create(ctx, sub))

	repo := NewSQLiteTransitionRepo(db)
	tr := &domain.TierTransition{
		ID: uuid.New().String(), SubmissionID: sub.ID, Seq: 1, Tier: domain.TierTeamLead,
		From: domain.TierPending, To: domain.TierApproved, ActorID: "lead-1", ActorRole: domain.RoleTeamLead,
		OverallBefore: domain.OverallPending, OverallAfter: domain.OverallApproved, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Append(ctx, tr))

	dup := *tr
	dup.ID = uuid.New().String()
	assert.Error(t, repo.Append(ctx, &dup))
}

func TestRosterEventRepo_OrderedBySeq(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	repo := NewSQLiteRosterEventRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	// Same timestamp, inserted out of order; seq decides.
	for _, e := range []struct {
		seq    int
		action domain.RosterAction
	}{{2, domain.RosterRemoved}, {1, domain.RosterAssigned}, {3, domain.RosterAssigned}} {
		require.NoError(t, repo.Append(ctx, &domain.RosterEvent{
			ID: uuid.New().String(), SubtaskID: st.ID, Seq: e.seq, Action: e.action,
			MemberID: "emp-1", MemberRole: domain.MemberEmployee, ActorID: "lead-1", CreatedAt: now,
		}))
	}

	events, err := repo.ListBySubtask(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{events[0].Seq, events[1].Seq, events[2].Seq})
	assert.Equal(t, domain.RosterAssigned, events[0].Action)
	assert.Equal(t, domain.RosterRemoved, events[1].Action)
}

func TestFeedbackRepo_AppendGetList(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	repo := NewSQLiteFeedbackRepo(db)
	ctx := context.Background()

	root := testutil.NewTestFeedback(st.ID, domain.WorkItemSubtask, testutil.TeamLeadActor("lead-1"), "please fix", testutil.WithSeq(1))
	require.NoError(t, repo.Append(ctx, root))
	reply := testutil.NewTestFeedback(st.ID, domain.WorkItemSubtask, testutil.EmployeeActor("emp-1"), "done",
		testutil.WithSeq(2), testutil.WithParent(root.ID))
	require.NoError(t, repo.Append(ctx, reply))

	fetched, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.ParentID)
	assert.Equal(t, root.ID, *fetched.ParentID)
	assert.Nil(t, fetched.SubmissionID)
	assert.Equal(t, domain.RoleEmployee, fetched.AuthorRole)

	thread, err := repo.ListByWorkItem(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, root.ID, thread[0].ID)
	assert.Equal(t, reply.ID, thread[1].ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedbackRepo_EntriesAreImmutable(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	repo := NewSQLiteFeedbackRepo(db)
	ctx := context.Background()

	e := testutil.NewTestFeedback(st.ID, domain.WorkItemSubtask, testutil.ManagerActor("mgr-1"), "hello")
	require.NoError(t, repo.Append(ctx, e))

	_, err := db.ExecContext(ctx, `UPDATE feedback_entries SET body = 'edited' WHERE id = ?`, e.ID)
	assert.Error(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM feedback_entries WHERE id = ?`, e.ID)
	assert.Error(t, err)

	fetched, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", fetched.Body)
}

func TestSequenceRepo_PerScopeMonotonic(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSequenceRepo(db)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.Next(ctx, "scope-a")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := repo.Next(ctx, "scope-b")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}
