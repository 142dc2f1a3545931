// Package hashchain computes the canonical SHA-256 fingerprints the
// posting engine and integrity verifier rely on: the idempotency scope
// hash, the command payload hash, and the journal hash chain link.
//
// Every fingerprint here is built from canonical JSON with
// lexicographically (code-point, not locale) sorted keys and entries,
// so two semantically identical inputs always hash identically
// regardless of field or entry ordering.
package hashchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// EntryFingerprint is one ledger line as seen by the hashing layer.
type EntryFingerprint struct {
	AccountID string `json:"account_id"`
	EntryType string `json:"entry_type"`
	Amount    int64  `json:"amount"`
}

func sortEntries(entries []EntryFingerprint) []EntryFingerprint {
	sorted := make([]EntryFingerprint, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].AccountID != sorted[j].AccountID {
			return sorted[i].AccountID < sorted[j].AccountID
		}

		return sorted[i].EntryType < sorted[j].EntryType
	})

	return sorted
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ScopeHash computes SHA-256(actor_type | actor_id | txn_type | idempotency_key).
// It identifies one idempotency record, not the posting scope lock —
// see LockScopeKey for that.
func ScopeHash(actorType, actorID, txnType, idempotencyKey string) string {
	raw := fmt.Sprintf("%s|%s|%s|%s", actorType, actorID, txnType, idempotencyKey)
	return sha256Hex([]byte(raw))
}

// LockScopeKey computes SHA-256(actor_type | actor_id | currency), the
// posting scope the serialized posting engine acquires its exclusive
// lock on. Unlike ScopeHash, this deliberately ignores txn_type and
// idempotency_key so that every call from one actor in one currency —
// regardless of idempotency key — is strictly ordered.
func LockScopeKey(actorType, actorID, currency string) string {
	raw := fmt.Sprintf("%s|%s|%s", actorType, actorID, currency)
	return sha256Hex([]byte(raw))
}

// payloadBody is the canonical, key-sorted shape hashed for PayloadHash.
// json.Marshal on a struct with explicit field order plus a pre-sorted
// entries slice gives us deterministic, code-point-ordered output
// without needing a generic map[string]any key sort.
type payloadBody struct {
	Currency    string             `json:"currency"`
	Description string             `json:"description"`
	Entries     []EntryFingerprint `json:"entries"`
}

// PayloadHash computes SHA-256(canonical_json({entries, currency, description})).
//
// entries are sorted by (account_id, entry_type) before hashing so the
// result is invariant under reordering of the command's entry list.
func PayloadHash(currency, description string, entries []EntryFingerprint) (string, error) {
	body := payloadBody{
		Currency:    currency,
		Description: description,
		Entries:     sortEntries(entries),
	}

	raw, err := canonicalJSON(body)
	if err != nil {
		return "", err
	}

	return sha256Hex(raw), nil
}

type journalBody struct {
	JournalID   string             `json:"journal_id"`
	Currency    string             `json:"currency"`
	TxnType     string             `json:"txn_type"`
	LedgerLines []EntryFingerprint `json:"ledger_lines"`
}

// JournalHash computes SHA-256(prevHash || canonical_json(journal fields)).
//
// Genesis journals pass prevHash = "".
func JournalHash(prevHash, journalID, currency, txnType string, lines []EntryFingerprint) (string, error) {
	body := journalBody{
		JournalID:   journalID,
		Currency:    currency,
		TxnType:     txnType,
		LedgerLines: sortEntries(lines),
	}

	raw, err := canonicalJSON(body)
	if err != nil {
		return "", err
	}

	combined := append([]byte(prevHash), raw...)

	return sha256Hex(combined), nil
}

// canonicalJSON marshals v with struct-declared field order preserved
// and no extraneous whitespace. Fields carrying maps must pre-sort
// their own keys before reaching here; this repo never hashes a raw
// map, only the typed bodies above, so json.Marshal's deterministic
// struct-field order is sufficient and code-point based.
func canonicalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
