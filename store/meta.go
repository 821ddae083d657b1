package store

// GetMeta returns the raw value stored under key in the meta table, used
// for small free-form bookkeeping (genesis hash, network id) beyond the
// schema version tracked by schema.go.
func (t *Txn) GetMeta(key string) ([]byte, error) {
	raw := t.bucket(bucketMeta).Get([]byte(key))
	if raw == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// PutMeta writes value under key in the meta table.
func (t *Txn) PutMeta(key string, value []byte) error {
	return t.bucket(bucketMeta).Put([]byte(key), value)
}
