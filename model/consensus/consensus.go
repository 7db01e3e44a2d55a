package consensus

const (
	// OneMegaByte 1MB
	OneMegaByte uint64 = 1000000

	// MaxBlockSize consensus cap on the serialized block size.
	MaxBlockSize uint64 = OneMegaByte

	// MaxBlockSigOps block-wide signature operation budget.
	MaxBlockSigOps uint64 = MaxBlockSize / 50

	// MaxTxSigOpsCount allowed number of signature check operations per transaction.
	MaxTxSigOpsCount uint64 = MaxBlockSigOps / 5

	// CoinbaseReserveSize bytes held back from selection for the coinbase
	// transaction and header slack.
	CoinbaseReserveSize uint64 = 1000

	// CoinbaseReserveSigOps sigops held back for the coinbase transaction.
	CoinbaseReserveSigOps uint64 = 100

	// DefaultMaxGeneratedBlockSize default for -blockmaxsize, which bounds
	// the size of blocks the mining code will create.
	DefaultMaxGeneratedBlockSize uint64 = 750000

	// DefaultBlockPrioritySize default for -blockprioritysize, maximum space
	// for zero/low-fee transactions at the head of created blocks.
	DefaultBlockPrioritySize uint64 = 0

	// DefaultBlockMinTxFee default for -blockmintxfee, the feerate floor (in
	// satoshis per kB) for transactions included by the mining code.
	DefaultBlockMinTxFee int64 = 1000

	LocktimeVerifySequence uint = 1 << 0
	LocktimeMedianTimePast uint = 1 << 1

	// StandardLockTimeVerifyFlags used for lock-time checks in non-consensus
	// code paths, including block creation.
	StandardLockTimeVerifyFlags = LocktimeVerifySequence | LocktimeMedianTimePast
)
