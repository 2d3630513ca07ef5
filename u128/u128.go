package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

var ErrOverflow = errors.New("value overflows Uint128")

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return ErrOverflow
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	return nil
}

func GenUint128FromString(num string) binary.Uint128 {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		panic(err)
	}
	return *u128
}

// FromBig narrows a big.Int into a Uint128. Errors when the value is
// negative or wider than 128 bits.
func FromBig(i *big.Int) (binary.Uint128, error) {
	if i.Sign() < 0 || i.BitLen() > 128 {
		return binary.Uint128{}, ErrOverflow
	}
	lo := new(big.Int).Set(i)
	out := binary.NewUint128LittleEndian()
	out.Lo = lo.Uint64()
	out.Hi = lo.Rsh(lo, 64).Uint64()
	return *out, nil
}

func FromUint64(v uint64) binary.Uint128 {
	out := binary.NewUint128LittleEndian()
	out.Lo = v
	return *out
}

// Shl64 returns v << 64 as a Uint128, the Q64.64 scaling of an integer.
func Shl64(v uint64) binary.Uint128 {
	out := binary.NewUint128LittleEndian()
	out.Hi = v
	return *out
}

func ToBig(u binary.Uint128) *big.Int {
	return u.BigInt()
}

// Max is the largest representable Uint128.
func Max() binary.Uint128 {
	out := binary.NewUint128LittleEndian()
	out.Lo = ^uint64(0)
	out.Hi = ^uint64(0)
	return *out
}
