package store

import "github.com/latticecoin/node/block"

// GetAccount returns the account_info record for account.
func (t *Txn) GetAccount(account block.Account) (AccountInfo, error) {
	raw := t.bucket(bucketAccounts).Get(account[:])
	if raw == nil {
		return AccountInfo{}, ErrNotFound
	}
	return decodeAccountInfo(raw)
}

// PutAccount writes (or overwrites) the account_info record for account.
func (t *Txn) PutAccount(account block.Account, info AccountInfo) error {
	return t.bucket(bucketAccounts).Put(account[:], encodeAccountInfo(info))
}

// DeleteAccount removes account's account_info record, used when rolling
// back an account's open block.
func (t *Txn) DeleteAccount(account block.Account) error {
	return t.bucket(bucketAccounts).Delete(account[:])
}

// AccountExists reports whether account has an opened chain.
func (t *Txn) AccountExists(account block.Account) bool {
	return t.bucket(bucketAccounts).Get(account[:]) != nil
}

// ForEachAccount calls fn for every account_info record, in key order.
// fn's returned error aborts the iteration and is returned to the caller.
func (t *Txn) ForEachAccount(fn func(block.Account, AccountInfo) error) error {
	return t.bucket(bucketAccounts).ForEach(func(k, v []byte) error {
		var acc block.Account
		copy(acc[:], k)
		info, err := decodeAccountInfo(v)
		if err != nil {
			return err
		}
		return fn(acc, info)
	})
}
