// Package signer produces OpenPGP signatures for mirror index pages.
package signer

// Signer signs generated index pages
type Signer interface {
	// SignDetached creates an armored detached signature (index.html.asc)
	SignDetached(data []byte) ([]byte, error)

	// PublicKey returns the armored public key published as pubkey.asc
	PublicKey() ([]byte, error)
}
