package gold

import (
	"testing"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

func TestBuildersAreBalanced(t *testing.T) {
	cases := [][]Entry{
		BuildDeposit("cash-1", "wallet-1", 1000),
		BuildWithdrawal("wallet-1", "cash-1", 1000),
		BuildP2P("wallet-1", "wallet-2", 500),
		BuildPayment("wallet-1", "merchant-1", 2500),
		BuildB2B("merchant-1", "merchant-2", 750),
		BuildFloatTopup("bank-1", "float-1", 100000),
		BuildFloatWithdrawal("float-1", "bank-1", 100000),
		BuildAdjustment("wallet-1", "suspense-1", 300),
		BuildAdjustment("wallet-1", "suspense-1", -300),
	}

	for i, entries := range cases {
		if err := AssertBalanced(entries); err != nil {
			t.Errorf("case %d: %v", i, err)
		}
	}
}

func TestReversePreservesBalanceAndSwapsSides(t *testing.T) {
	original := BuildP2P("wallet-1", "wallet-2", 500)
	reversed := Reverse(original)

	if err := AssertBalanced(reversed); err != nil {
		t.Fatalf("reversed entries not balanced: %v", err)
	}

	for i := range original {
		if reversed[i].AccountID != original[i].AccountID {
			t.Errorf("reversal changed account at index %d", i)
		}

		if reversed[i].Amount != original[i].Amount {
			t.Errorf("reversal changed amount at index %d", i)
		}

		if reversed[i].EntryType == original[i].EntryType {
			t.Errorf("reversal did not flip entry type at index %d", i)
		}
	}
}

func TestAppendFeeAndCommissionLegsStayBalanced(t *testing.T) {
	entries := BuildPayment("wallet-1", "merchant-1", 10000)
	entries = AppendFeeLeg(entries, "wallet-1", "fee-revenue-1", 150)
	entries = AppendCommissionLeg(entries, "fee-revenue-1", "commission-payable-agent-1", 50)

	if err := AssertBalanced(entries); err != nil {
		t.Fatalf("entries with fee/commission legs not balanced: %v", err)
	}
}

func TestAssertBalancedRejectsUnbalanced(t *testing.T) {
	entries := []Entry{Debit("a", 100, ""), Credit("b", 90, "")}

	if err := AssertBalanced(entries); err == nil {
		t.Fatal("expected an error for unbalanced entries")
	}
}

func TestReversalNetsToZero(t *testing.T) {
	balances := map[string]int64{"wallet-1": 0, "wallet-2": 0}

	apply := func(entries []Entry) {
		for _, e := range entries {
			if e.EntryType == mmodel.EntryTypeDebit {
				balances[e.AccountID] -= e.Amount
			} else {
				balances[e.AccountID] += e.Amount
			}
		}
	}

	original := BuildP2P("wallet-1", "wallet-2", 500)
	apply(original)
	apply(Reverse(original))

	for acc, bal := range balances {
		if bal != 0 {
			t.Errorf("account %s did not net to zero after reversal: %d", acc, bal)
		}
	}
}
