package account

// Pool holds the configured accounts in configuration order. It is built once
// at process start and never mutated afterwards, so indices stay stable for
// the process lifetime.
type Pool struct {
	accounts []Account
}

// NewPool builds a pool from the configured credential blobs, assigning each
// its positional id. An empty credential list yields an empty pool; the
// rotator surfaces that as a configuration error on first selection.
func NewPool(credentials []string) *Pool {
	accounts := make([]Account, 0, len(credentials))
	for i, cred := range credentials {
		accounts = append(accounts, New(i, cred))
	}

	return &Pool{accounts: accounts}
}

// Accounts returns the accounts in configuration order.
func (p *Pool) Accounts() []Account {
	out := make([]Account, len(p.accounts))
	copy(out, p.accounts)
	return out
}

// Count returns the number of configured accounts.
func (p *Pool) Count() int {
	return len(p.accounts)
}

// Get returns the account at the given index. The index must be in [0, N).
func (p *Pool) Get(index int) Account {
	return p.accounts[index]
}
