package chain

import (
	"sync"

	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chainparams"
	"github.com/wonko433/blackcoin-more/util"
)

// Chain is the active block chain. Callers serialize access through the
// embedded lock; the chain lock is always taken before the mempool lock.
type Chain struct {
	sync.RWMutex

	active   []*blockindex.BlockIndex
	indexMap map[util.Hash]*blockindex.BlockIndex
	params   *chainparams.BlackcoinParams
}

var globalChain *Chain

func GetInstance() *Chain {
	if globalChain == nil {
		panic("chain has not been initialized")
	}
	return globalChain
}

func InitGlobalChain(params *chainparams.BlackcoinParams) {
	if globalChain == nil {
		globalChain = NewChain(params)
	}
	globalChain.params = params
}

func NewChain(params *chainparams.BlackcoinParams) *Chain {
	return &Chain{
		active:   make([]*blockindex.BlockIndex, 0),
		indexMap: make(map[util.Hash]*blockindex.BlockIndex),
		params:   params,
	}
}

func (c *Chain) GetParams() *chainparams.BlackcoinParams {
	return c.params
}

func (c *Chain) Genesis() *blockindex.BlockIndex {
	if len(c.active) > 0 {
		return c.active[0]
	}
	return nil
}

func (c *Chain) Tip() *blockindex.BlockIndex {
	if len(c.active) > 0 {
		return c.active[len(c.active)-1]
	}
	return nil
}

func (c *Chain) TipHeight() int32 {
	if len(c.active) > 0 {
		return c.active[len(c.active)-1].Height
	}
	return 0
}

func (c *Chain) Height() int32 {
	return int32(len(c.active) - 1)
}

func (c *Chain) GetIndex(height int32) *blockindex.BlockIndex {
	if height < 0 || height >= int32(len(c.active)) {
		return nil
	}
	return c.active[height]
}

func (c *Chain) FindBlockIndex(hash util.Hash) *blockindex.BlockIndex {
	return c.indexMap[hash]
}

func (c *Chain) Contains(index *blockindex.BlockIndex) bool {
	if index == nil {
		return false
	}
	return c.GetIndex(index.Height) == index
}

// SetTip rebuilds the active branch so it terminates at index.
func (c *Chain) SetTip(index *blockindex.BlockIndex) {
	if index == nil {
		c.active = c.active[:0]
		return
	}

	c.active = make([]*blockindex.BlockIndex, index.Height+1)
	for index != nil {
		c.active[index.Height] = index
		c.indexMap[*index.GetBlockHash()] = index
		index = index.Prev
	}
}

func (c *Chain) AddToIndexMap(index *blockindex.BlockIndex) {
	c.indexMap[*index.GetBlockHash()] = index
}
