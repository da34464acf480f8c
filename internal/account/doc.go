// Package account defines the Account value type and the Pool of configured
// upstream credential identities. Accounts carry an explicit immutable id
// assigned from configuration order at load time.
package account
