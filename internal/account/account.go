package account

// Account represents one configured upstream credential identity. The ID is
// the account's stable position in the configured pool and is set once at
// construction; it is never derived from the credential itself.
type Account struct {
	id         int
	credential string
}

// ID returns the account's stable index in [0, N).
func (a Account) ID() int {
	return a.id
}

// Credential returns the opaque credential blob for this account.
func (a Account) Credential() string {
	return a.credential
}

// New creates an Account with the given stable index and credential.
func New(id int, credential string) Account {
	return Account{
		id:         id,
		credential: credential,
	}
}
