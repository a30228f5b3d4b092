package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

type opKind int

const (
	opSaveScore opKind = iota
	opDeleteScore
	opDeleteParticipant
	opAudit
)

type stagedOp struct {
	kind            opKind
	participantID   string
	record          domain.ScoreRecord
	expectedVersion int64
	entry           domain.AuditEntry
}

type ledgerTx struct {
	store    *Store
	ops      []stagedOp
	releases []func()
	// holdsAudit is set once this tx owns store.auditMu.
	holdsAudit bool
	nextSeq    int64
	lastStamp  time.Time
	done       bool
}

func (t *ledgerTx) GetScoreRecordForUpdate(ctx context.Context, participantID string) (*domain.ScoreRecord, error) {
	if t.done {
		return nil, domain.ErrTxClosed
	}
	release, err := t.store.rowLocks.Acquire(ctx, participantID)
	if err != nil {
		return nil, err
	}
	t.releases = append(t.releases, release)
	return t.store.GetScoreRecord(ctx, participantID)
}

func (t *ledgerTx) SaveScoreRecord(ctx context.Context, rec domain.ScoreRecord, expectedVersion int64) error {
	if t.done {
		return domain.ErrTxClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.mu.RLock()
	err := t.store.checkVersion(rec.ParticipantID, expectedVersion)
	t.store.mu.RUnlock()
	if err != nil {
		return err
	}

	t.ops = append(t.ops, stagedOp{kind: opSaveScore, participantID: rec.ParticipantID, record: *rec.Clone(), expectedVersion: expectedVersion})
	return nil
}

func (t *ledgerTx) DeleteScoreRecord(ctx context.Context, participantID string) error {
	if t.done {
		return domain.ErrTxClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t.ops = append(t.ops, stagedOp{kind: opDeleteScore, participantID: participantID})
	return nil
}

func (t *ledgerTx) DeleteParticipant(ctx context.Context, participantID string) error {
	if t.done {
		return domain.ErrTxClosed
	}
	if _, err := t.store.GetParticipant(ctx, participantID); err != nil {
		return err
	}
	t.ops = append(t.ops, stagedOp{kind: opDeleteParticipant, participantID: participantID})
	return nil
}

func (t *ledgerTx) AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	if t.done {
		return domain.AuditEntry{}, domain.ErrTxClosed
	}
	if err := ctx.Err(); err != nil {
		return domain.AuditEntry{}, err
	}

	if !t.holdsAudit {
		t.store.auditMu.Lock()
		t.holdsAudit = true
		t.store.mu.RLock()
		t.nextSeq = int64(len(t.store.audit)) + 1
		t.lastStamp = t.store.lastAuditStampLocked()
		t.store.mu.RUnlock()
	}

	entry.Sequence = t.nextSeq
	entry.Timestamp = clampStamp(entry.Timestamp, t.lastStamp)
	t.nextSeq++
	t.lastStamp = entry.Timestamp
	t.ops = append(t.ops, stagedOp{kind: opAudit, entry: entry})
	return entry, nil
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	if t.done {
		return domain.ErrTxClosed
	}
	defer t.finish()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range t.ops {
		if op.kind == opSaveScore {
			if err := s.checkVersion(op.participantID, op.expectedVersion); err != nil {
				return err
			}
		}
	}

	for _, op := range t.ops {
		switch op.kind {
		case opSaveScore:
			s.scores[op.participantID] = op.record
		case opDeleteScore:
			delete(s.scores, op.participantID)
		case opDeleteParticipant:
			delete(s.participants, op.participantID)
			delete(s.scores, op.participantID)
		case opAudit:
			s.audit = append(s.audit, op.entry)
		}
	}
	return nil
}

func (t *ledgerTx) Rollback(_ context.Context) error {
	if t.done {
		return domain.ErrTxClosed
	}
	t.finish()
	return nil
}

func (t *ledgerTx) finish() {
	t.done = true
	t.ops = nil
	for i := len(t.releases) - 1; i >= 0; i-- {
		t.releases[i]()
	}
	t.releases = nil
	if t.holdsAudit {
		t.holdsAudit = false
		t.store.auditMu.Unlock()
	}
}

// checkVersion must be called with s.mu held.
func (s *Store) checkVersion(participantID string, expectedVersion int64) error {
	var current int64
	if rec, ok := s.scores[participantID]; ok {
		current = rec.Version
	}
	if current != expectedVersion {
		return fmt.Errorf("%w: participant %s expected version %d, stored %d",
			domain.ErrVersionConflict, participantID, expectedVersion, current)
	}
	return nil
}
