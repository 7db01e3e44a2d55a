package util

import (
	"fmt"
	"math"
)

// FeeRate is a fee rate in satoshis per kilobyte: Amount / kB
type FeeRate struct {
	SataoshisPerK int64
}

// GetFee returns the fee in satoshis for the given size in bytes.
func (feeRate *FeeRate) GetFee(bytes int) int64 {
	if bytes > math.MaxInt32 {
		panic("bytes is greater than MaxInt32")
	}
	size := int64(bytes)
	fee := feeRate.SataoshisPerK * size / 1000
	if fee == 0 && size != 0 {
		if feeRate.SataoshisPerK > 0 {
			fee = 1
		}
		if feeRate.SataoshisPerK < 0 {
			fee = -1
		}
	}
	return fee
}

// GetFeePerK returns the fee in satoshis for a size of 1000 bytes
func (feeRate *FeeRate) GetFeePerK() int64 {
	return feeRate.GetFee(1000)
}

func (feeRate *FeeRate) Less(b FeeRate) bool {
	return feeRate.SataoshisPerK < b.SataoshisPerK
}

func (feeRate *FeeRate) String() string {
	return fmt.Sprintf("%d.%08d BLK/kB", feeRate.SataoshisPerK/100000000,
		feeRate.SataoshisPerK%100000000)
}

func NewFeeRate(amount int64) *FeeRate {
	return &FeeRate{SataoshisPerK: amount}
}

// NewFeeRateWithSize constructs a rate from the fee paid for bytes of data.
func NewFeeRateWithSize(feePaid int64, bytes int64) *FeeRate {
	if bytes > math.MaxInt32 {
		panic("bytes is greater than MaxInt32")
	}
	if bytes > 0 {
		return NewFeeRate(feePaid * 1000 / bytes)
	}
	return NewFeeRate(0)
}
