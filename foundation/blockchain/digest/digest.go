// Package digest is the boundary to the cryptographic hash used by the
// blockchain. Every digest in the system is the lowercase hex encoding of a
// sha256 sum.
package digest

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
)

// GenesisPrevHash is the previous hash value recorded in the genesis block.
const GenesisPrevHash = "0"

// HexLength is the number of hex characters in an encoded digest.
const HexLength = sha256.Size * 2

// Sum returns the raw 32 byte digest for the data.
func Sum(data []byte) [sha256.Size]byte {
	return sha256.Sum256(data)
}

// Hex returns the digest for the data as a 64 character lowercase hex string
// without any prefix.
func Hex(data []byte) string {
	hash := Sum(data)
	return common.Bytes2Hex(hash[:])
}
