package state

import (
	"fmt"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
)

// Tamper simulates an attacker rewriting the payload of the block at the
// specified position. The block's hash is recomputed with its existing nonce
// and every later block has its hash recomputed from its existing fields.
// No proof of work is performed and no previous hash is updated, so the
// linkage to the next block is left broken.
func (s *State) Tamper(index int, payload string) error {
	s.evHandler("state: Tamper: started: blk[%d]: payload[%s]", index, payload)
	defer s.evHandler("state: Tamper: completed")

	n := s.storage.Count()
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	if len(payload) > database.MaxPayload {
		return fmt.Errorf("%w: %d bytes, max %d", database.ErrPayloadTooLarge, len(payload), database.MaxPayload)
	}

	for i := index; i < n; i++ {
		block, err := s.storage.GetBlock(uint64(i))
		if err != nil {
			return err
		}

		if i == index {
			block.Header.Payload = payload
		}

		old := block.Digest
		block.Digest = block.Hash()

		if err := s.storage.Replace(uint64(i), block); err != nil {
			return err
		}

		s.evHandler("state: Tamper: blk[%d]: rehash: old[%s]: new[%s]", i, old, block.Digest)
	}

	return nil
}
