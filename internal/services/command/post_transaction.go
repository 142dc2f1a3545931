package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	"github.com/meridianpay/ledgercore/pkg/gold"
	"github.com/meridianpay/ledgercore/pkg/hashchain"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// PostTransaction implements spec §4.4's algorithm exactly: scope
// lookup and validation happen inside the exclusive posting-scope
// lock, and the atomic commit is the only point of no return.
func (uc *UseCase) PostTransaction(ctx context.Context, cmd PostCommand) (*Receipt, error) {
	if cmd.IdempotencyKey == "" {
		return nil, merr.MissingRequiredField("idempotency_key")
	}

	if cmd.ActorType == "" {
		return nil, merr.MissingRequiredField("actor_type")
	}

	if cmd.ActorID == "" {
		return nil, merr.MissingRequiredField("actor_id")
	}

	// Step 1: compute scope_hash and payload_hash.
	scopeHash := hashchain.ScopeHash(cmd.ActorType, cmd.ActorID, string(cmd.TxnType), cmd.IdempotencyKey)

	payloadHash, err := hashchain.PayloadHash(cmd.Currency, cmd.Description, entryFingerprints(cmd.Entries))
	if err != nil {
		return nil, merr.Internal(err)
	}

	lockKey := hashchain.LockScopeKey(cmd.ActorType, cmd.ActorID, cmd.Currency)

	token, err := uc.Lock.Acquire(ctx, lockKey)
	if err != nil {
		return nil, merr.IdempotencyInProgress(scopeHash)
	}

	defer func() {
		_ = uc.Lock.Release(ctx, lockKey, token)
	}()

	return uc.postLocked(ctx, cmd, scopeHash, payloadHash)
}

func (uc *UseCase) postLocked(ctx context.Context, cmd PostCommand, scopeHash, payloadHash string) (*Receipt, error) {
	// Step 2: lookup.
	receipt, err := uc.lookupReplay(ctx, scopeHash, payloadHash)
	if err != nil {
		return nil, err
	}

	if receipt != nil {
		return receipt, nil
	}

	entries := cmd.goldEntries()

	// Step 3: currency uniformity.
	if err := assertSingleCurrency(cmd.Currency, cmd.Entries); err != nil {
		return nil, err
	}

	// Step 4: balance of entries.
	if err := gold.AssertBalanced(entries); err != nil {
		drTotal, crTotal := sumBySide(entries)
		return nil, merr.UnbalancedJournal(drTotal, crTotal)
	}

	// Step 5: sufficient-funds check per debited account.
	if err := uc.checkSufficientFunds(ctx, cmd.Currency, entries); err != nil {
		return nil, err
	}

	// Step 6: prev_hash and journal_hash.
	prevHash, err := uc.LedgerRepo.GetLatestHash(ctx)
	if err != nil {
		return nil, merr.Internal(err)
	}

	journalID := uuid.NewString()

	journalHash, err := hashchain.JournalHash(prevHash, journalID, cmd.Currency, string(cmd.TxnType), entryFingerprints(cmd.Entries))
	if err != nil {
		return nil, merr.Internal(err)
	}

	// Step 7: build journal, lines, events, audit, idempotency record.
	now := uc.now()

	lines := make([]mmodel.LedgerLine, len(entries))
	deltas := make([]ledger.BalanceDelta, len(entries))

	for i, e := range entries {
		lines[i] = mmodel.LedgerLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   e.AccountID,
			EntryType:   e.EntryType,
			Amount:      e.Amount,
			Description: e.Description,
			CreatedAt:   now,
		}

		delta := e.Amount
		if e.EntryType == mmodel.EntryTypeDebit {
			delta = -delta
		}

		deltas[i] = ledger.BalanceDelta{AccountID: e.AccountID, Currency: cmd.Currency, DeltaCents: delta}
	}

	journal := mmodel.LedgerJournal{
		JournalID:        journalID,
		TxnType:          cmd.TxnType,
		Currency:         cmd.Currency,
		CorrelationID:    cmd.CorrelationID,
		IdempotencyKey:   cmd.IdempotencyKey,
		State:            mmodel.JournalStatePosted,
		InitiatorActorID: cmd.ActorID,
		PrevHash:         prevHash,
		Hash:             journalHash,
		Description:      cmd.Description,
		CreatedAt:        now,
	}

	receipt = &Receipt{
		JournalID:     journalID,
		State:         mmodel.JournalStatePosted,
		Entries:       lines,
		CreatedAt:     now,
		CorrelationID: cmd.CorrelationID,
		TxnType:       cmd.TxnType,
		Currency:      cmd.Currency,
	}

	resultJSON, err := json.Marshal(receipt)
	if err != nil {
		return nil, merr.Internal(err)
	}

	events := []mmodel.Event{
		newEvent(mmodel.EventTxnPosted, journalID, cmd.CorrelationID, journalID, cmd.ActorType, cmd.ActorID, now),
		newEvent(mmodel.EventTxnCompleted, journalID, cmd.CorrelationID, journalID, cmd.ActorType, cmd.ActorID, now),
	}

	audit := mmodel.AuditLog{
		ID:            uuid.NewString(),
		Action:        fmt.Sprintf("%s_POSTED", cmd.TxnType),
		ActorType:     cmd.ActorType,
		ActorID:       cmd.ActorID,
		TargetType:    "ledger_journal",
		TargetID:      journalID,
		AfterJSON:     string(resultJSON),
		CorrelationID: cmd.CorrelationID,
		CreatedAt:     now,
	}

	idempotencyRecord := mmodel.IdempotencyRecord{
		RecordID:    uuid.NewString(),
		ScopeHash:   scopeHash,
		PayloadHash: payloadHash,
		ResultJSON:  string(resultJSON),
		Status:      mmodel.IdempotencyStatusCompleted,
		JournalID:   journalID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(mmodel.IdempotencyTTL),
	}

	bundle := ledger.Bundle{
		Journal:           journal,
		Lines:             lines,
		BalanceDeltas:     deltas,
		Events:            events,
		Audit:             audit,
		IdempotencyRecord: idempotencyRecord,
	}

	// Step 8: atomic commit.
	if err := uc.LedgerRepo.InsertJournalBundle(ctx, bundle); err != nil {
		return nil, merr.Internal(err)
	}

	uc.forwardEvents(ctx, events)
	uc.storeMetadata(ctx, cmd, journalID)

	if uc.Cache != nil {
		_ = uc.Cache.SetResult(ctx, scopeHash+"|"+payloadHash, string(resultJSON))
	}

	// Step 9: return the receipt.
	return receipt, nil
}

// lookupReplay implements step 2: returns a stored receipt on a true
// replay, fails on a payload conflict, and returns (nil, nil) when
// this is a brand-new scope. The cache is keyed by scope and payload
// hash together, so a conflicting payload misses it and reaches the
// payload check below.
func (uc *UseCase) lookupReplay(ctx context.Context, scopeHash, payloadHash string) (*Receipt, error) {
	if uc.Cache != nil {
		if cached, err := uc.Cache.GetResult(ctx, scopeHash+"|"+payloadHash); err == nil && cached != "" {
			var receipt Receipt
			if err := json.Unmarshal([]byte(cached), &receipt); err == nil {
				return &receipt, nil
			}
		}
	}

	existing, err := uc.IdempotencyRepo.LookupByScopeHash(ctx, scopeHash)
	if err != nil {
		return nil, merr.Internal(err)
	}

	if existing == nil {
		return nil, nil
	}

	if existing.PayloadHash != payloadHash {
		return nil, merr.DuplicateIdempotencyConflict(scopeHash)
	}

	if existing.Status == mmodel.IdempotencyStatusInProgress {
		return nil, merr.IdempotencyInProgress(scopeHash)
	}

	if existing.ResultJSON == "" {
		return nil, merr.Internal(fmt.Errorf("idempotency record %s has no result payload", existing.RecordID))
	}

	var receipt Receipt
	if err := json.Unmarshal([]byte(existing.ResultJSON), &receipt); err != nil {
		return nil, merr.Internal(err)
	}

	return &receipt, nil
}

func (uc *UseCase) checkSufficientFunds(ctx context.Context, currency string, entries []gold.Entry) error {
	required := map[string]int64{}

	for _, e := range entries {
		if e.EntryType == mmodel.EntryTypeDebit {
			required[e.AccountID] += e.Amount
		}
	}

	for accountID, requiredAmount := range required {
		balance, err := uc.LedgerRepo.GetBalance(ctx, accountID, currency)
		if err != nil {
			return merr.Internal(err)
		}

		limit, err := uc.overdraftLimit(ctx, accountID)
		if err != nil {
			return merr.Internal(err)
		}

		if balance+limit < requiredAmount {
			return merr.InsufficientFunds(accountID, requiredAmount, balance+limit)
		}
	}

	return nil
}

// overdraftLimit treats a missing overdraft row, or a facility that is
// not Effective now, as a zero limit (spec §4.4 step 5); any error from
// OverdraftRepo.Get is returned to the caller.
// UseCase.OverdraftRepo may be nil when overdraft is not configured.
func (uc *UseCase) overdraftLimit(ctx context.Context, accountID string) (int64, error) {
	if uc.OverdraftRepo == nil {
		return 0, nil
	}

	facility, err := uc.OverdraftRepo.Get(ctx, accountID)
	if err != nil {
		return 0, err
	}

	if facility == nil || !facility.Effective(uc.now()) {
		return 0, nil
	}

	return facility.LimitCents, nil
}

func (uc *UseCase) forwardEvents(ctx context.Context, events []mmodel.Event) {
	if uc.Producer == nil {
		return
	}

	for _, ev := range events {
		if err := uc.Producer.Forward(ctx, ev); err != nil && uc.Logger != nil {
			uc.Logger.Errorf("failed to forward event %s: %v", ev.ID, err)
		}
	}
}

func (uc *UseCase) storeMetadata(ctx context.Context, cmd PostCommand, journalID string) {
	if uc.MetadataRepo == nil || len(cmd.Metadata) == 0 {
		return
	}

	if err := uc.MetadataRepo.Create(ctx, "ledger_journal", journalID, cmd.Metadata); err != nil && uc.Logger != nil {
		uc.Logger.Errorf("failed to store metadata for journal %s: %v", journalID, err)
	}
}

func newEvent(name, entityID, correlationID, causationID, actorType, actorID string, now time.Time) mmodel.Event {
	return mmodel.Event{
		ID:            uuid.NewString(),
		Name:          name,
		EntityType:    "ledger_journal",
		EntityID:      entityID,
		CorrelationID: correlationID,
		CausationID:   causationID,
		ActorType:     actorType,
		ActorID:       actorID,
		SchemaVersion: 1,
		PayloadJSON:   "{}",
		CreatedAt:     now,
	}
}

// assertSingleCurrency is spec §4.4 step 3: every entry must settle in
// the transaction's declared currency. Cross-currency postings are
// rejected rather than silently converted.
func assertSingleCurrency(currency string, entries []EntryCommand) error {
	if len(entries) == 0 {
		return merr.MissingRequiredField("entries")
	}

	if currency == "" {
		return merr.MissingRequiredField("currency")
	}

	for _, e := range entries {
		if e.AccountID == "" {
			return merr.MissingRequiredField("entries.account_id")
		}

		if e.Amount <= 0 {
			return merr.MissingRequiredField("entries.amount")
		}

		if e.Currency != "" && e.Currency != currency {
			return merr.CrossCurrencyNotAllowed()
		}
	}

	return nil
}

func sumBySide(entries []gold.Entry) (dr, cr int64) {
	for _, e := range entries {
		if e.EntryType == mmodel.EntryTypeDebit {
			dr += e.Amount
		} else {
			cr += e.Amount
		}
	}

	return dr, cr
}

func entryFingerprints(entries []EntryCommand) []hashchain.EntryFingerprint {
	fps := make([]hashchain.EntryFingerprint, len(entries))
	for i, e := range entries {
		fps[i] = hashchain.EntryFingerprint{AccountID: e.AccountID, EntryType: string(e.EntryType), Amount: e.Amount}
	}

	return fps
}
