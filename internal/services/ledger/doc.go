/*
Package ledger is the single authoritative wallet store. Every balance
mutation in the system goes through Credit, Debit, Reserve or Release —
never direct field assignment — and appends exactly one immutable
WalletTransaction with the resulting total balance.

Mutations for one user are serialized by a per-user mutex on top of the
store's transaction scope, so concurrent deposit approval, withdrawal
completion and checkout settlement against the same wallet cannot
interleave into a negative or inconsistent balance.

Usage:

	svc := ledger.NewService(store, cache, &ledger.NoopMetricsCollector{})

	// Standalone credit
	txn, err := svc.Credit(ctx, userID, amount, models.BucketMain,
		models.TransactionTypeDeposit, ref, "deposit")

	// Several ledger writes plus a status flip in one atomic commit
	err = svc.Apply(ctx, userID, func(ops ledger.Ops) error {
		if _, err := ops.Credit(amount, models.BucketMain,
			models.TransactionTypeDeposit, ref, "deposit"); err != nil {
			return err
		}
		return ops.Store().Deposits().Update(req)
	})

Debit fails closed: an insufficient bucket balance aborts the whole commit
and the ledger is left byte-for-byte unchanged.
*/
package ledger
