package amount

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Amount is a quantity of satoshis.
type Amount int64

const (
	COIN Amount = 100000000
	CENT Amount = 1000000

	MaxMoney = 21000000 * COIN
)

func (a Amount) MoneyRange() bool {
	return a >= 0 && a <= MaxMoney
}

func (a Amount) ToBLK() float64 {
	return float64(a) / float64(COIN)
}

// ParseMoney converts a decimal coin string ("0.0001") to satoshis.
func ParseMoney(str string) (Amount, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, errors.New("empty money string")
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid money string %q", str)
	}
	if f < 0 {
		return 0, errors.Errorf("negative money string %q", str)
	}
	value := Amount(f*float64(COIN) + 0.5)
	if !value.MoneyRange() {
		return 0, errors.Errorf("money string %q out of range", str)
	}
	return value, nil
}
