package errcode

type MemPoolErr int

const MemPoolBase MemPoolErr = 1000

const (
	ErrorNotExistsInMemPool MemPoolErr = iota + MemPoolBase
	ErrorAlreadyExistsInMemPool
	ErrorOutOfMemPool
)

var memPoolDesc = map[MemPoolErr]string{
	ErrorNotExistsInMemPool:     "transaction does not exist in mempool",
	ErrorAlreadyExistsInMemPool: "transaction already exists in mempool",
	ErrorOutOfMemPool:           "an input spends an output unknown to the mempool",
}

func (me MemPoolErr) String() string {
	if s, ok := memPoolDesc[me]; ok {
		return s
	}
	return "unknown mempool error"
}
