package mining

const (
	// Limit the number of attempts to add transactions to the block when it
	// is close to full; this is just a simple heuristic to finish quickly if
	// the mempool has a lot of entries.
	maxConsecutiveFailures = 1000

	// CoinbaseFlag is appended to the coinbase scriptSig after the extra
	// nonce.
	CoinbaseFlag = "blackcoin-more"

	// Once the block is within this many bytes of full, only a bounded
	// number of further priority candidates are examined.
	nearFullWindow = 1000

	// A block within this many bytes of full takes no more priority txs.
	fullWindow = 100

	// How many small candidates to try once inside the near-full window.
	maxLastFewTxs = 50
)
