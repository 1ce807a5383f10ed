// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package block

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuilderLifecycle(t *testing.T) {
	require := require.New(t)
	b := NewBuilder()

	_, err := b.GetBlock()
	require.Error(err)

	require.NoError(b.SetHeader(Header{Height: 1, Timestamp: time.Unix(0, 0)}))
	require.Error(b.SetHeader(Header{Height: 1, Timestamp: time.Unix(0, 0)}))

	blk, err := b.GetBlock()
	require.NoError(err)
	require.Empty(blk.Transactions)

	b.Reset()
	require.False(b.HasHeader())
	_, err = b.GetBlock()
	require.Error(err)
}

func TestBlockchainHeightAndAddBlock(t *testing.T) {
	require := require.New(t)
	chain := NewBlockchain()
	require.Equal(uint64(0), chain.Height())

	for h := uint64(1); h <= 3; h++ {
		require.NoError(chain.AddBlock(Block{Header: Header{Height: h}}))
	}
	require.Equal(uint64(3), chain.Height())

	err := chain.AddBlock(Block{Header: Header{Height: 5}})
	require.ErrorContains(err, "height does not extend chain")
	require.Equal(uint64(3), chain.Height())
}
