package gold

// BuildDeposit: cash enters the system from an external source (agent
// till, bank rail) and credits the customer's wallet.
func BuildDeposit(cashSourceAccountID, walletAccountID string, amountCents int64) []Entry {
	return []Entry{
		Debit(cashSourceAccountID, amountCents, "deposit"),
		Credit(walletAccountID, amountCents, "deposit"),
	}
}

// BuildWithdrawal: cash leaves the wallet back out to an external
// cash-out point.
func BuildWithdrawal(walletAccountID, cashSinkAccountID string, amountCents int64) []Entry {
	return []Entry{
		Debit(walletAccountID, amountCents, "withdrawal"),
		Credit(cashSinkAccountID, amountCents, "withdrawal"),
	}
}

// BuildP2P: customer-to-customer wallet transfer.
func BuildP2P(fromWalletAccountID, toWalletAccountID string, amountCents int64) []Entry {
	return []Entry{
		Debit(fromWalletAccountID, amountCents, "p2p"),
		Credit(toWalletAccountID, amountCents, "p2p"),
	}
}

// BuildPayment: customer wallet pays a merchant wallet for goods or
// services.
func BuildPayment(payerWalletAccountID, merchantWalletAccountID string, amountCents int64) []Entry {
	return []Entry{
		Debit(payerWalletAccountID, amountCents, "payment"),
		Credit(merchantWalletAccountID, amountCents, "payment"),
	}
}

// BuildB2B: business-to-business settlement between two merchant or
// agent float accounts.
func BuildB2B(fromAccountID, toAccountID string, amountCents int64) []Entry {
	return []Entry{
		Debit(fromAccountID, amountCents, "b2b"),
		Credit(toAccountID, amountCents, "b2b"),
	}
}

// BuildFloatTopup: an agent's cash float is replenished from the
// operator's bank clearing account.
func BuildFloatTopup(bankClearingAccountID, cashFloatAccountID string, amountCents int64) []Entry {
	return []Entry{
		Debit(bankClearingAccountID, amountCents, "float topup"),
		Credit(cashFloatAccountID, amountCents, "float topup"),
	}
}

// BuildFloatWithdrawal: excess agent float is swept back to the bank
// clearing account.
func BuildFloatWithdrawal(cashFloatAccountID, bankClearingAccountID string, amountCents int64) []Entry {
	return []Entry{
		Debit(cashFloatAccountID, amountCents, "float withdrawal"),
		Credit(bankClearingAccountID, amountCents, "float withdrawal"),
	}
}

// BuildAdjustment: a manual correction moving amountCents between an
// account and the suspense account, direction controlled by the
// caller (positive credits accountID, negative debits it).
func BuildAdjustment(accountID, suspenseAccountID string, amountCents int64) []Entry {
	if amountCents < 0 {
		return []Entry{
			Debit(accountID, -amountCents, "adjustment"),
			Credit(suspenseAccountID, -amountCents, "adjustment"),
		}
	}

	return []Entry{
		Debit(suspenseAccountID, amountCents, "adjustment"),
		Credit(accountID, amountCents, "adjustment"),
	}
}
