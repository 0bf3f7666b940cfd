package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Identity is a node's key pair: the concrete realization of the crypto
// adapter's gen_keys() contract, derived through a BIP-39 mnemonic and
// BIP-32 HD path rather than raw key generation, so a node's keys can be
// recreated from a recorded seed phrase.
type Identity struct {
	Mnemonic string
	Key      *crypto.PrivateKey
	Address  types.PublicKey
}

// GenerateIdentity creates a fresh 24-word mnemonic, derives its seed,
// and walks the standard receiving-address HD path to produce a node's
// signing key and address.
func GenerateIdentity() (*Identity, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	return IdentityFromMnemonic(mnemonic)
}

// IdentityFromMnemonic rebuilds a node's identity from a previously
// recorded mnemonic, so a simulation can recreate a node's key pair
// across process runs without persisting raw private key bytes.
func IdentityFromMnemonic(mnemonic string) (*Identity, error) {
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	hdKey, err := master.DeriveAddress(0, ChangeExternal, 0)
	if err != nil {
		return nil, fmt.Errorf("derive address key: %w", err)
	}
	signer, err := hdKey.Signer()
	if err != nil {
		return nil, fmt.Errorf("derive signer: %w", err)
	}
	addr, err := hdKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	return &Identity{Mnemonic: mnemonic, Key: signer, Address: addr}, nil
}
